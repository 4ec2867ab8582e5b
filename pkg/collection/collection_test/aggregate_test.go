package collection_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

func TestApplyAggregation(t *testing.T) {
	values := []any{10, 20, 30, 40, 50}

	tests := []struct {
		op   collection.Operation
		in   []any
		want any
	}{
		{op: collection.OpSum, in: values, want: float64(150)},
		{op: collection.OpAvg, in: values, want: float64(30)},
		{op: collection.OpMin, in: values, want: float64(10)},
		{op: collection.OpMax, in: values, want: float64(50)},
		{op: collection.OpCount, in: values, want: 5},
		{op: collection.OpDistinct, in: []any{1, 2, 2, 3}, want: 3},
		{op: collection.OpDistinct, in: []any{1, 1.0, "1"}, want: 2},
		{op: collection.OpSum, in: []any{0.1, 0.2}, want: 0.3},
		{op: collection.OpSum, in: []any{"12.5", "x", 7.5}, want: float64(20)},
		{op: collection.OpAvg, in: []any{}, want: float64(0)},
		{op: collection.OpMax, in: []any{"n/a"}, want: float64(0)},
		{op: "median", in: []any{1, 2}, want: []any{1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, collection.ApplyAggregation(tt.in, tt.op))
		})
	}
}

func TestAggregate(t *testing.T) {
	data := []collection.Record{
		{"category": "food", "price": 25.0},
		{"category": "food", "price": 12.5},
		{"category": "office", "price": 9.0},
		{"category": "kitchen", "price": 40.0},
		{"category": "kitchen", "price": nil},
	}

	got := collection.Aggregate(data, map[string]collection.Aggregation{
		"totalValue":      {Field: "price", Operation: collection.OpSum},
		"pricedCount":     {Field: "price", Operation: collection.OpCount},
		"valueByCategory": {Field: "price", Operation: collection.OpSum, GroupBy: "category"},
	})

	want := map[string]any{
		"totalValue":  86.5,
		"pricedCount": 4,
		"valueByCategory": map[string]any{
			"food":    37.5,
			"office":  float64(9),
			"kitchen": float64(40),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}
