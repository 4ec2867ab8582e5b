package optimizer_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

func newOptimizer(cfg optimizer.Config) *optimizer.Optimizer {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return optimizer.New(log, cache.New(cache.Config{MaxSize: 100, DefaultTTL: time.Minute}), cfg)
}

func TestOptimizer_Deduplicate(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func() (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const callers = 10
	results := make([]any, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = o.Deduplicate(context.Background(), "products:{}", fn)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}

func TestOptimizer_Deduplicate_FailureIsNotSticky(t *testing.T) {
	o := newOptimizer(optimizer.Config{})
	errBoom := errors.New("boom")

	_, err := o.Deduplicate(context.Background(), "k", func() (any, error) {
		return nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)

	val, err := o.Deduplicate(context.Background(), "k", func() (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
}

func TestOptimizer_Deduplicate_CallerContext(t *testing.T) {
	o := newOptimizer(optimizer.Config{})
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.Deduplicate(ctx, "slow", func() (any, error) {
		<-release
		return nil, nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBatch(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}

	var chunkSizes []int
	var mu sync.Mutex
	out, err := optimizer.Batch(context.Background(), o, "orders", items,
		func(_ context.Context, chunk []int) ([]string, error) {
			mu.Lock()
			chunkSizes = append(chunkSizes, len(chunk))
			mu.Unlock()

			res := make([]string, len(chunk))
			for i, v := range chunk {
				res[i] = fmt.Sprintf("item-%d", v)
			}
			return res, nil
		}, 50)
	require.NoError(t, err)

	assert.Equal(t, []int{50, 50, 20}, chunkSizes)
	require.Len(t, out, 120)
	assert.Equal(t, "item-0", out[0])
	assert.Equal(t, "item-119", out[119])
}

func TestBatch_DefaultSizeAndEmpty(t *testing.T) {
	o := newOptimizer(optimizer.Config{BatchSize: 4})

	var calls int
	out, err := optimizer.Batch(context.Background(), o, "e", []int{1, 2, 3, 4, 5},
		func(_ context.Context, chunk []int) ([]int, error) {
			calls++
			return chunk, nil
		}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, out)

	out, err = optimizer.Batch(context.Background(), o, "e", nil,
		func(_ context.Context, chunk []int) ([]int, error) {
			t.Fatal("process must not run for an empty batch")
			return nil, nil
		}, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBatch_FirstErrorAborts(t *testing.T) {
	o := newOptimizer(optimizer.Config{})
	errChunk := errors.New("chunk failed")

	var calls int
	_, err := optimizer.Batch(context.Background(), o, "e", []int{1, 2, 3, 4, 5, 6},
		func(_ context.Context, chunk []int) ([]int, error) {
			calls++
			if calls == 2 {
				return nil, errChunk
			}
			return chunk, nil
		}, 2)

	require.ErrorIs(t, err, errChunk)
	assert.Equal(t, 2, calls)
}

func runDebounced(o *optimizer.Optimizer, delay time.Duration, calls *atomic.Int32, values []string, gap time.Duration) ([]any, []error) {
	results := make([]any, len(values))
	errs := make([]error, len(values))

	var wg sync.WaitGroup
	for i, v := range values {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = o.Debounce(context.Background(), "products:search", delay,
				func(context.Context) (any, error) {
					calls.Add(1)
					return v, nil
				})
		}()
		time.Sleep(gap)
	}
	wg.Wait()

	return results, errs
}

func TestOptimizer_Debounce(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	results, errs := runDebounced(o, 200*time.Millisecond, &calls, []string{"a", "ab", "abc"}, 20*time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "abc", results[i])
	}
}

func TestOptimizer_Debounce_Strict(t *testing.T) {
	o := newOptimizer(optimizer.Config{StrictDebounce: true})

	var calls atomic.Int32
	results, errs := runDebounced(o, 200*time.Millisecond, &calls, []string{"a", "ab", "abc"}, 20*time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	require.ErrorIs(t, errs[0], optimizer.ErrSuperseded)
	require.ErrorIs(t, errs[1], optimizer.ErrSuperseded)
	require.NoError(t, errs[2])
	assert.Equal(t, "abc", results[2])
}

func TestOptimizer_Debounce_SeparateWindows(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	fn := func(context.Context) (any, error) {
		return calls.Add(1), nil
	}

	first, err := o.Debounce(context.Background(), "k", 10*time.Millisecond, fn)
	require.NoError(t, err)
	second, err := o.Debounce(context.Background(), "k", 10*time.Millisecond, fn)
	require.NoError(t, err)

	assert.Equal(t, int32(1), first)
	assert.Equal(t, int32(2), second)
}

func TestOptimizer_Prefetch_Bounds(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	tests := []struct {
		name     string
		current  int
		total    int
		distance int
		want     []any
	}{
		{name: "two ahead", current: 1, total: 5, distance: 2, want: []any{2, 3}},
		{name: "clamped to total", current: 3, total: 4, distance: 2, want: []any{4}},
		{name: "last page", current: 4, total: 4, distance: 2, want: []any{}},
		{name: "default distance", current: 1, total: 10, distance: 0, want: []any{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.Prefetch(context.Background(), "products", func(_ context.Context, page int) (any, error) {
				return page, nil
			}, tt.current, tt.total, tt.distance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptimizer_Prefetch_SkipsInFlightPages(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = o.Prefetch(context.Background(), "products", func(_ context.Context, page int) (any, error) {
			close(entered)
			<-release
			return page, nil
		}, 1, 2, 1)
	}()

	<-entered
	require.True(t, o.Prefetching("products", 2))

	var fetched []int
	got, err := o.Prefetch(context.Background(), "products", func(_ context.Context, page int) (any, error) {
		fetched = append(fetched, page)
		return page, nil
	}, 1, 3, 1)
	require.NoError(t, err)
	assert.Empty(t, fetched)
	assert.Empty(t, got)

	close(release)
	<-done
	assert.False(t, o.Prefetching("products", 2))
}

func TestOptimizer_Prefetch_Error(t *testing.T) {
	o := newOptimizer(optimizer.Config{})
	errPage := errors.New("page failed")

	_, err := o.Prefetch(context.Background(), "orders", func(_ context.Context, page int) (any, error) {
		if page == 3 {
			return nil, errPage
		}
		return page, nil
	}, 1, 5, 2)
	require.ErrorIs(t, err, errPage)
	assert.False(t, o.Prefetching("orders", 3))
}

func TestOptimizeParams(t *testing.T) {
	var nilSlice []string
	var nilMap map[string]any

	tests := []struct {
		name string
		in   cache.Params
		want cache.Params
	}{
		{
			name: "drops nil and empty",
			in:   cache.Params{"search": "x", "category": nil, "empty": ""},
			want: cache.Params{"search": "x"},
		},
		{
			name: "joins slices",
			in:   cache.Params{"status": []string{"paid", "shipped"}, "ids": []int{1, 2, 3}},
			want: cache.Params{"status": "paid,shipped", "ids": "1,2,3"},
		},
		{
			name: "drops typed nils",
			in:   cache.Params{"tags": nilSlice, "filter": nilMap, "page": 1},
			want: cache.Params{"page": 1},
		},
		{
			name: "keeps zero values",
			in:   cache.Params{"page": 0, "active": false},
			want: cache.Params{"page": 0, "active": false},
		},
		{
			name: "nil input",
			in:   nil,
			want: cache.Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, optimizer.OptimizeParams(tt.in))
		})
	}
}

func TestSortedKeys(t *testing.T) {
	keys := optimizer.SortedKeys(cache.Params{"page": 1, "category": "a", "search": "b"})
	assert.Equal(t, []string{"category", "page", "search"}, keys)
}
