// Package optimizer wraps fetch functions with caching, request
// deduplication, debouncing, batching and predictive prefetching.
package optimizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

// ErrSuperseded is returned to debounced callers replaced by a newer call
// when strict debouncing is enabled.
var ErrSuperseded = errors.New("debounced call superseded by a newer call")

type Optimizer struct {
	logger  *slog.Logger
	cache   *cache.ResultCache
	cfg     Config
	metrics *Metrics

	group singleflight.Group

	mu          sync.Mutex
	debounces   map[string]*pendingDebounce
	prefetching map[string]struct{}

	background sync.WaitGroup
}

type Option func(*Optimizer)

func WithMetrics(m *Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}

func New(log *slog.Logger, resultCache *cache.ResultCache, cfg Config, opts ...Option) *Optimizer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if resultCache == nil {
		resultCache = cache.New(cache.Config{})
	}

	o := &Optimizer{
		logger:      log,
		cache:       resultCache,
		cfg:         cfg.withDefaults(),
		debounces:   make(map[string]*pendingDebounce),
		prefetching: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Cache returns the result cache shared by every query of this optimizer.
func (o *Optimizer) Cache() *cache.ResultCache {
	return o.cache
}

// Deduplicate runs fn once for all concurrent callers sharing key. Every
// caller observes the same value or error. The in-flight record is dropped
// as soon as fn returns, so a failure never sticks to later calls. A caller
// whose ctx ends stops waiting; fn itself keeps running.
func (o *Optimizer) Deduplicate(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	ch := o.group.DoChan(key, fn)

	select {
	case res := <-ch:
		if res.Shared {
			o.metrics.sharedResult()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until background prefetches started by queries have finished.
func (o *Optimizer) Wait() {
	o.background.Wait()
}
