package collection

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// MinNGram is the shortest indexed substring, in runes.
	MinNGram = 2
	// DefaultMinScore is the inclusion threshold used by callers that have
	// no better one.
	DefaultMinScore = 0.3
)

// SearchIndex maps every lower-cased substring of at least MinNGram runes to
// the positions of the records containing it. It describes one snapshot of
// the data; any change to the slice requires a rebuild.
type SearchIndex map[string]map[int]struct{}

// BuildSearchIndex indexes every substring of the given fields of every
// record. Missing fields index as empty strings.
func BuildSearchIndex(data []Record, fields []string) SearchIndex {
	idx := make(SearchIndex)
	for i, item := range data {
		for _, field := range fields {
			value := []rune(strings.ToLower(stringify(item[field])))
			for start := range value {
				for end := start + MinNGram; end <= len(value); end++ {
					gram := string(value[start:end])
					set, ok := idx[gram]
					if !ok {
						set = make(map[int]struct{})
						idx[gram] = set
					}
					set[i] = struct{}{}
				}
			}
		}
	}
	return idx
}

// Search ranks records by how many of the query's n-grams they contain,
// normalized by the query length in runes. Records scoring at least
// minScore are returned by descending score, ties kept in data order.
// A query shorter than MinNGram returns data unchanged.
func Search(data []Record, idx SearchIndex, query string, minScore float64) []Record {
	q := []rune(strings.ToLower(query))
	if len(q) < MinNGram {
		return data
	}

	counts := make(map[int]int)
	for start := range q {
		for end := start + MinNGram; end <= len(q); end++ {
			for i := range idx[string(q[start:end])] {
				counts[i]++
			}
		}
	}

	type hit struct {
		pos   int
		score float64
	}
	hits := make([]hit, 0, len(counts))
	for pos, n := range counts {
		if pos < 0 || pos >= len(data) {
			continue
		}
		score := float64(n) / float64(len(q))
		if score >= minScore {
			hits = append(hits, hit{pos: pos, score: score})
		}
	}

	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})

	out := make([]Record, len(hits))
	for i, h := range hits {
		out[i] = data[h.pos]
	}
	return out
}
