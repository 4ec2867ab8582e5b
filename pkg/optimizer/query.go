package optimizer

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

const (
	// ParamSearch is the parameter whose presence makes a query debounced.
	ParamSearch = "search"
	// ParamPage is the parameter prefetching rewrites for following pages.
	ParamPage = "page"
	// OptionForceFresh bypasses the cache read. It never takes part in keys.
	OptionForceFresh = "forceFresh"
	// OptionSkipDebounce runs a search query immediately. It never takes
	// part in keys.
	OptionSkipDebounce = "skipDebounce"
)

// FetchFunc performs the real data access for one parameter bag.
type FetchFunc func(ctx context.Context, params cache.Params, opts cache.Options) (any, error)

// QueryFunc is a FetchFunc enriched by the optimizer.
type QueryFunc func(ctx context.Context, params cache.Params, opts cache.Options) (any, error)

// Paginated is implemented by results that can drive prefetching.
type Paginated interface {
	PageInfo() (page, totalPages int)
}

type QueryConfig struct {
	CacheTTL            time.Duration
	EnableDeduplication bool
	EnableDebounce      bool
	EnablePrefetch      bool
	// KeyStrategy is registered on the cache for the query endpoint.
	KeyStrategy      cache.KeyStrategy
	DebounceDelay    time.Duration
	PrefetchDistance int
	// ServeStaleOnError answers with an expired entry, when one is still
	// held, instead of the fetch error.
	ServeStaleOnError bool
}

func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		CacheTTL:            cache.DefaultTTL,
		EnableDeduplication: true,
	}
}

// NewQuery builds the cached, deduplicated, optionally debounced and
// prefetching version of fetch. Fetch errors reach the caller unchanged and
// are never cached, unless ServeStaleOnError finds an expired entry for the
// same key. Debounce windows are per cache key, so callers never receive the
// result of a different query.
func (o *Optimizer) NewQuery(endpoint string, fetch FetchFunc, cfg QueryConfig) QueryFunc {
	if cfg.KeyStrategy != nil {
		o.cache.RegisterKeyStrategy(endpoint, cfg.KeyStrategy)
	}

	return func(ctx context.Context, rawParams cache.Params, rawOpts cache.Options) (any, error) {
		params := OptimizeParams(rawParams)
		opts, flags := splitOptions(rawOpts)
		key := o.cache.GenerateKey(endpoint, params, opts)

		var stale *cache.Entry
		if !flags.forceFresh {
			if cfg.ServeStaleOnError {
				entry, expired, ok := o.cache.GetStale(endpoint, params, opts)
				if ok && !expired {
					return entry.Data, nil
				}
				stale = entry
			} else if entry, ok := o.cache.Get(endpoint, params, opts); ok {
				return entry.Data, nil
			}
		}

		request := func(ctx context.Context) (any, error) {
			return fetch(ctx, params, opts)
		}
		if cfg.EnableDeduplication {
			direct := request
			request = func(ctx context.Context) (any, error) {
				return o.Deduplicate(ctx, key, func() (any, error) {
					return direct(context.WithoutCancel(ctx))
				})
			}
		}

		var (
			result any
			err    error
			owned  = true
		)
		_, searching := params[ParamSearch]
		if cfg.EnableDebounce && searching && !flags.skipDebounce {
			// One window per canonical key: only identical queries collapse.
			res := o.debounce(ctx, key, cfg.DebounceDelay, request)
			result, err, owned = res.val, res.err, res.executed
		} else {
			result, err = request(ctx)
		}
		if err != nil {
			if stale != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
				o.metrics.staleServed()
				o.logger.WarnContext(ctx, "serving stale result",
					slog.String("key", key),
					slog.Any("error", err),
				)
				return stale.Data, nil
			}
			return nil, err
		}

		if !owned {
			return result, nil
		}

		o.cache.Set(endpoint, params, opts, result, cfg.CacheTTL)
		if cfg.EnablePrefetch {
			o.schedulePrefetch(endpoint, fetch, params, opts, result, cfg)
		}

		return result, nil
	}
}

func (o *Optimizer) schedulePrefetch(
	endpoint string,
	fetch FetchFunc,
	params cache.Params,
	opts cache.Options,
	result any,
	cfg QueryConfig,
) {
	paginated, ok := result.(Paginated)
	if !ok {
		return
	}
	page, totalPages := paginated.PageInfo()
	if page <= 0 || page >= totalPages {
		return
	}

	o.background.Add(1)
	go func() {
		defer o.background.Done()

		ctx := context.Background()
		_, err := o.Prefetch(ctx, endpoint, func(ctx context.Context, next int) (any, error) {
			nextParams := maps.Clone(params)
			nextParams[ParamPage] = next
			if o.cache.Has(endpoint, nextParams, opts) {
				return nil, nil
			}

			// Shares the in-flight call with a foreground request for the
			// same page.
			key := o.cache.GenerateKey(endpoint, nextParams, opts)
			data, err := o.Deduplicate(ctx, key, func() (any, error) {
				return fetch(ctx, nextParams, opts)
			})
			if err != nil {
				return nil, err
			}
			o.cache.Set(endpoint, nextParams, opts, data, cfg.CacheTTL)
			return data, nil
		}, page, totalPages, cfg.PrefetchDistance)
		if err != nil {
			o.metrics.prefetchFailed()
			o.logger.WarnContext(ctx, "prefetch failed",
				slog.String("endpoint", endpoint),
				slog.Int("page", page),
				slog.Any("error", err),
			)
		}
	}()
}

type queryFlags struct {
	forceFresh   bool
	skipDebounce bool
}

// splitOptions removes the control options that never take part in keys.
func splitOptions(opts cache.Options) (cache.Options, queryFlags) {
	var flags queryFlags
	out := make(cache.Options, len(opts))
	for key, val := range opts {
		switch key {
		case OptionForceFresh:
			flags.forceFresh = isTrue(val)
		case OptionSkipDebounce:
			flags.skipDebounce = isTrue(val)
		default:
			out[key] = val
		}
	}
	return out, flags
}

func isTrue(val any) bool {
	return val == true || val == "true"
}
