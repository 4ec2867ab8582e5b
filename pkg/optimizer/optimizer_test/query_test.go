package optimizer_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

type pageResult struct {
	Page       int
	TotalPages int
}

func (p pageResult) PageInfo() (int, int) {
	return p.Page, p.TotalPages
}

func TestNewQuery_CachesResults(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	query := o.NewQuery("products", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		calls.Add(1)
		return params["category"], nil
	}, optimizer.DefaultQueryConfig())

	for range 3 {
		got, err := query(context.Background(), cache.Params{"category": "coffee", "search": ""}, nil)
		require.NoError(t, err)
		assert.Equal(t, "coffee", got)
	}
	assert.Equal(t, int32(1), calls.Load())

	entry, ok := o.Cache().Get("products", cache.Params{"category": "coffee"}, cache.Options{})
	require.True(t, ok)
	assert.Equal(t, "coffee", entry.Data)
}

func TestNewQuery_ForceFresh(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	query := o.NewQuery("dashboard", func(context.Context, cache.Params, cache.Options) (any, error) {
		return calls.Add(1), nil
	}, optimizer.DefaultQueryConfig())

	first, err := query(context.Background(), nil, nil)
	require.NoError(t, err)
	fresh, err := query(context.Background(), nil, cache.Options{optimizer.OptionForceFresh: true})
	require.NoError(t, err)
	cached, err := query(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), first)
	assert.Equal(t, int32(2), fresh)
	assert.Equal(t, int32(2), cached)
	assert.Equal(t, 1, o.Cache().Len())
}

func TestNewQuery_ErrorsPassThroughUncached(t *testing.T) {
	o := newOptimizer(optimizer.Config{})
	errUpstream := errors.New("upstream unavailable")

	var calls atomic.Int32
	query := o.NewQuery("orders", func(context.Context, cache.Params, cache.Options) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errUpstream
		}
		return "orders", nil
	}, optimizer.DefaultQueryConfig())

	_, err := query(context.Background(), nil, nil)
	assert.Equal(t, errUpstream, err)
	assert.Equal(t, 0, o.Cache().Len())

	got, err := query(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "orders", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewQuery_DeduplicatesConcurrentMisses(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	release := make(chan struct{})
	query := o.NewQuery("customers", func(context.Context, cache.Params, cache.Options) (any, error) {
		calls.Add(1)
		<-release
		return "customers", nil
	}, optimizer.DefaultQueryConfig())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := query(context.Background(), cache.Params{"page": 1}, nil)
			assert.NoError(t, err)
			assert.Equal(t, "customers", got)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestNewQuery_KeyStrategy(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	cfg := optimizer.DefaultQueryConfig()
	cfg.KeyStrategy = cache.KeyStrategyFunc(func(params cache.Params, _ cache.Options) string {
		return "products:fixed"
	})
	query := o.NewQuery("products", func(context.Context, cache.Params, cache.Options) (any, error) {
		return "p", nil
	}, cfg)

	_, err := query(context.Background(), cache.Params{"page": 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"products:fixed"}, o.Cache().Keys())
}

func TestNewQuery_DebouncedSearch_KeepsTermsApart(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var mu sync.Mutex
	var searched []any
	cfg := optimizer.DefaultQueryConfig()
	cfg.EnableDebounce = true
	cfg.DebounceDelay = 100 * time.Millisecond
	query := o.NewQuery("products", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		mu.Lock()
		searched = append(searched, params["search"])
		mu.Unlock()
		return params["search"], nil
	}, cfg)

	terms := []string{"cof", "coffee"}
	results := make([]any, len(terms))
	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := query(context.Background(), cache.Params{"search": term}, nil)
			assert.NoError(t, err)
			results[i] = got
		}()
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []any{"cof", "coffee"}, results)
	assert.ElementsMatch(t, []any{"cof", "coffee"}, searched)
	assert.True(t, o.Cache().Has("products", cache.Params{"search": "coffee"}, cache.Options{}))
	assert.True(t, o.Cache().Has("products", cache.Params{"search": "cof"}, cache.Options{}))
}

func TestNewQuery_DebouncedSearch_CollapsesRepeats(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var calls atomic.Int32
	cfg := optimizer.DefaultQueryConfig()
	cfg.EnableDebounce = true
	cfg.DebounceDelay = 100 * time.Millisecond
	query := o.NewQuery("products", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		calls.Add(1)
		return params["search"], nil
	}, cfg)

	results := make([]any, 3)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := query(context.Background(), cache.Params{"search": "coffee", "page": 1}, nil)
			assert.NoError(t, err)
			results[i] = got
		}()
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []any{"coffee", "coffee", "coffee"}, results)
}

func TestNewQuery_SkipDebounce(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	cfg := optimizer.DefaultQueryConfig()
	cfg.EnableDebounce = true
	cfg.DebounceDelay = 5 * time.Second
	query := o.NewQuery("products", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		return params["search"], nil
	}, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := query(ctx, cache.Params{"search": "tea"}, cache.Options{optimizer.OptionSkipDebounce: true})
	require.NoError(t, err)
	assert.Equal(t, "tea", got)
	assert.True(t, o.Cache().Has("products", cache.Params{"search": "tea"}, cache.Options{}))
}

func TestNewQuery_ServeStaleOnError(t *testing.T) {
	var now atomic.Int64
	now.Store(time.Now().UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	o := optimizer.New(nil, cache.New(cache.Config{}, cache.WithClock(clock)), optimizer.Config{})

	upstreamErr := errors.New("upstream down")
	var fail atomic.Bool
	fetch := func(context.Context, cache.Params, cache.Options) (any, error) {
		if fail.Load() {
			return nil, upstreamErr
		}
		return "fresh", nil
	}

	cfg := optimizer.DefaultQueryConfig()
	cfg.CacheTTL = time.Minute
	cfg.ServeStaleOnError = true
	stale := o.NewQuery("dashboard", fetch, cfg)

	plainCfg := cfg
	plainCfg.ServeStaleOnError = false
	plain := o.NewQuery("analytics", fetch, plainCfg)

	for _, query := range []optimizer.QueryFunc{stale, plain} {
		got, err := query(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)
	}

	fail.Store(true)
	now.Add(int64(2 * time.Minute))

	got, err := stale(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)

	_, err = plain(context.Background(), nil, nil)
	assert.ErrorIs(t, err, upstreamErr)

	// The expired entry is handed out once.
	_, err = stale(context.Background(), nil, nil)
	assert.ErrorIs(t, err, upstreamErr)
}

func TestNewQuery_PrefetchSharesInFlightPage(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	started := make(chan struct{})
	release := make(chan struct{})
	var pageTwoCalls atomic.Int32

	cfg := optimizer.DefaultQueryConfig()
	cfg.EnablePrefetch = true
	query := o.NewQuery("orders", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		page, _ := params[optimizer.ParamPage].(int)
		if page == 2 {
			if pageTwoCalls.Add(1) == 1 {
				close(started)
			}
			<-release
		}
		return pageResult{Page: page, TotalPages: 2}, nil
	}, cfg)

	_, err := query(context.Background(), cache.Params{optimizer.ParamPage: 1}, nil)
	require.NoError(t, err)
	<-started

	done := make(chan any)
	go func() {
		got, err := query(context.Background(), cache.Params{optimizer.ParamPage: 2}, nil)
		assert.NoError(t, err)
		done <- got
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, pageResult{Page: 2, TotalPages: 2}, <-done)
	o.Wait()
	assert.Equal(t, int32(1), pageTwoCalls.Load())
}

func TestNewQuery_PrefetchesFollowingPages(t *testing.T) {
	o := newOptimizer(optimizer.Config{})

	var mu sync.Mutex
	var pages []int
	cfg := optimizer.DefaultQueryConfig()
	cfg.EnablePrefetch = true
	cfg.PrefetchDistance = 2
	query := o.NewQuery("orders", func(_ context.Context, params cache.Params, _ cache.Options) (any, error) {
		page, _ := params[optimizer.ParamPage].(int)
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()
		return pageResult{Page: page, TotalPages: 3}, nil
	}, cfg)

	got, err := query(context.Background(), cache.Params{optimizer.ParamPage: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, pageResult{Page: 1, TotalPages: 3}, got)

	o.Wait()

	for _, page := range []int{2, 3} {
		entry, ok := o.Cache().Get("orders", cache.Params{optimizer.ParamPage: page}, cache.Options{})
		require.True(t, ok, "page %d should be prefetched", page)
		assert.Equal(t, pageResult{Page: page, TotalPages: 3}, entry.Data)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, pages, 3)
}
