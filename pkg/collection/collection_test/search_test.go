package collection_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

func TestSearch_RoundTrip(t *testing.T) {
	data := []collection.Record{{"name": "Coffee Beans"}, {"name": "Tea"}}
	idx := collection.BuildSearchIndex(data, []string{"name"})

	got := collection.Search(data, idx, "coffee", collection.DefaultMinScore)

	if diff := cmp.Diff([]collection.Record{{"name": "Coffee Beans"}}, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_ShortQueryReturnsData(t *testing.T) {
	data := []collection.Record{{"name": "Coffee Beans"}, {"name": "Tea"}}
	idx := collection.BuildSearchIndex(data, []string{"name"})

	for _, q := range []string{"", "c"} {
		got := collection.Search(data, idx, q, collection.DefaultMinScore)
		assert.Equal(t, data, got)
	}
}

func TestBuildSearchIndex(t *testing.T) {
	data := []collection.Record{
		{"name": "Tea", "sku": "T-1"},
		{"name": "Green Tea"},
		{"name": nil},
	}
	idx := collection.BuildSearchIndex(data, []string{"name", "sku"})

	require.Contains(t, idx, "tea")
	assert.Len(t, idx["tea"], 2)
	assert.Contains(t, idx, "t-1")
	assert.NotContains(t, idx, "t")
	assert.NotContains(t, idx, "Tea")
}

func TestSearch_OrderAndThreshold(t *testing.T) {
	data := []collection.Record{
		{"name": "Teapot"},
		{"name": "Tea"},
		{"name": "Sweater"},
		{"name": "Tent"},
	}
	idx := collection.BuildSearchIndex(data, []string{"name"})

	// "tea" has n-grams "te", "tea" and "ea". Teapot and Tea contain all
	// three (score 1), Sweater two of them (score 2/3), Tent only "te"
	// (score 1/3).
	got := collection.Search(data, idx, "tea", 0.5)
	assert.Equal(t, []collection.Record{{"name": "Teapot"}, {"name": "Tea"}, {"name": "Sweater"}}, got)

	strict := collection.Search(data, idx, "tea", 1)
	assert.Equal(t, []collection.Record{{"name": "Teapot"}, {"name": "Tea"}}, strict)
}

func TestSearch_Unicode(t *testing.T) {
	data := []collection.Record{{"name": "Café Crème"}, {"name": "Cafeteria"}}
	idx := collection.BuildSearchIndex(data, []string{"name"})

	got := collection.Search(data, idx, "CRÈME", collection.DefaultMinScore)
	assert.Equal(t, []collection.Record{{"name": "Café Crème"}}, got)
}
