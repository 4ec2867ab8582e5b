package collection

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type Operation string

const (
	OpSum      Operation = "sum"
	OpAvg      Operation = "avg"
	OpMin      Operation = "min"
	OpMax      Operation = "max"
	OpCount    Operation = "count"
	OpDistinct Operation = "distinct"
)

type Aggregation struct {
	Field     string    `json:"field"`
	Operation Operation `json:"operation"`
	GroupBy   string    `json:"groupBy,omitempty"`
}

// Aggregate evaluates each named aggregation over data. With GroupBy the
// result is a map from the stringified group value to the aggregate of that
// group. Null field values are left out.
func Aggregate(data []Record, aggregations map[string]Aggregation) map[string]any {
	results := make(map[string]any, len(aggregations))
	for name, agg := range aggregations {
		if agg.GroupBy == "" {
			results[name] = ApplyAggregation(fieldValues(data, agg.Field), agg.Operation)
			continue
		}

		groups := make(map[string][]any)
		for _, item := range data {
			key := groupKey(item[agg.GroupBy])
			if _, ok := groups[key]; !ok {
				groups[key] = []any{}
			}
			if v := item[agg.Field]; v != nil {
				groups[key] = append(groups[key], v)
			}
		}

		grouped := make(map[string]any, len(groups))
		for key, values := range groups {
			grouped[key] = ApplyAggregation(values, agg.Operation)
		}
		results[name] = grouped
	}

	return results
}

// ApplyAggregation reduces values with op. Numeric operations skip values
// that are not numbers or numeric strings and return float64; avg, min and
// max of nothing are 0. count is the number of values and distinct the
// number of unique ones. An unknown op returns values unchanged.
func ApplyAggregation(values []any, op Operation) any {
	switch op {
	case OpSum:
		sum, _ := decimalSum(values)
		return sum.InexactFloat64()
	case OpAvg:
		sum, n := decimalSum(values)
		if n == 0 {
			return float64(0)
		}
		return sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
	case OpMin:
		return extreme(values, func(a, b decimal.Decimal) bool { return a.LessThan(b) })
	case OpMax:
		return extreme(values, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
	case OpCount:
		return len(values)
	case OpDistinct:
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			seen[distinctKey(v)] = struct{}{}
		}
		return len(seen)
	default:
		return values
	}
}

func fieldValues(data []Record, field string) []any {
	values := make([]any, 0, len(data))
	for _, item := range data {
		if v := item[field]; v != nil {
			values = append(values, v)
		}
	}
	return values
}

func decimalSum(values []any) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, v := range values {
		d, ok := asDecimal(v)
		if !ok {
			continue
		}
		sum = sum.Add(d)
		n++
	}
	return sum, n
}

func extreme(values []any, better func(a, b decimal.Decimal) bool) float64 {
	var (
		best  decimal.Decimal
		found bool
	)
	for _, v := range values {
		d, ok := asDecimal(v)
		if !ok {
			continue
		}
		if !found || better(d, best) {
			best, found = d, true
		}
	}
	if !found {
		return 0
	}
	return best.InexactFloat64()
}

func groupKey(v any) string {
	if v == nil {
		return "null"
	}
	return stringify(v)
}

func distinctKey(v any) string {
	if f, ok := asNumber(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
