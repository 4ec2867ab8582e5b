package collection

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder maps anything but "desc" (any case) to Asc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// Sort returns a sorted copy of data ordered by the sortBy field. Strings
// use locale collation, numbers and times compare by value and mixed values
// fall back to collating their string forms. The sort is stable. An empty
// sortBy returns data as is.
func Sort(data []Record, sortBy string, order SortOrder) []Record {
	if sortBy == "" {
		return data
	}

	// A Collator keeps internal buffers and is not safe for concurrent use.
	col := collate.New(language.Und)

	out := slices.Clone(data)
	slices.SortStableFunc(out, func(a, b Record) int {
		c := compareForSort(col, a[sortBy], b[sortBy])
		if order == Desc {
			return -c
		}
		return c
	})

	return out
}

func compareForSort(col *collate.Collator, a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return col.CompareString(as, bs)
		}
	}

	if _, ok := asNumber(a); ok {
		if c, ok := compareValues(a, b); ok {
			return c
		}
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	return col.CompareString(stringify(a), stringify(b))
}
