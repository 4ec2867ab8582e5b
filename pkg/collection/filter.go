package collection

import (
	"reflect"
	"strconv"
	"strings"
)

// FilterAll disables a filter entry.
const FilterAll = "all"

// Range matches values between Min and Max inclusive. A nil bound is open.
type Range struct {
	Min any `json:"min"`
	Max any `json:"max"`
}

func (r Range) contains(v any) bool {
	if v == nil {
		return false
	}
	if r.Min != nil {
		if c, ok := compareValues(v, r.Min); !ok || c < 0 {
			return false
		}
	}
	if r.Max != nil {
		if c, ok := compareValues(v, r.Max); !ok || c > 0 {
			return false
		}
	}
	return true
}

// Filter keeps the records matching every filter entry. Per entry:
// nil, "" and "all" are ignored; a slice tests membership; a string against
// a string field is a case-insensitive substring match and against a number
// field a numeric comparison; a Range or a
// {"min","max"} object is an inclusive range; anything else is equality,
// with numbers compared by value.
func Filter(data []Record, filters map[string]any) []Record {
	out := make([]Record, 0, len(data))
	for _, item := range data {
		if matchesAll(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll(item Record, filters map[string]any) bool {
	for field, want := range filters {
		if !matches(item[field], want) {
			return false
		}
	}
	return true
}

func matches(got, want any) bool {
	switch w := want.(type) {
	case nil:
		return true
	case string:
		if w == "" || w == FilterAll {
			return true
		}
		if s, ok := got.(string); ok {
			return strings.Contains(strings.ToLower(s), strings.ToLower(w))
		}
		// Query strings carry numbers as text.
		if f, ok := asNumber(got); ok {
			wf, err := strconv.ParseFloat(w, 64)
			return err == nil && f == wf
		}
		return looseEqual(got, w)
	case Range:
		return w.contains(got)
	case *Range:
		if w == nil {
			return true
		}
		return w.contains(got)
	case map[string]any:
		if r, ok := rangeFromMap(w); ok {
			return r.contains(got)
		}
		return looseEqual(got, w)
	}

	rv := reflect.ValueOf(want)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := range rv.Len() {
			if looseEqual(got, rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}

	return looseEqual(got, want)
}

func rangeFromMap(m map[string]any) (Range, bool) {
	lo, hasMin := m["min"]
	hi, hasMax := m["max"]
	if !hasMin || !hasMax {
		return Range{}, false
	}
	return Range{Min: lo, Max: hi}, true
}
