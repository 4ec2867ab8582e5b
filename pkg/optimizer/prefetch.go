package optimizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PageFetcher loads one page of a paginated resource.
type PageFetcher func(ctx context.Context, page int) (any, error)

// Prefetch loads the pages following currentPage, up to distance of them
// (the optimizer default when not positive) and never past totalPages. Pages
// are fetched concurrently. A page already being prefetched within scope is
// skipped. Results are returned in page order for the pages actually
// fetched; the first error is returned once every fetch has settled.
func (o *Optimizer) Prefetch(
	ctx context.Context,
	scope string,
	fetch PageFetcher,
	currentPage int,
	totalPages int,
	distance int,
) ([]any, error) {
	if distance <= 0 {
		distance = o.cfg.PrefetchDistance
	}

	pages := make([]int, 0, distance)
	o.mu.Lock()
	for i := 1; i <= distance; i++ {
		next := currentPage + i
		if next > totalPages {
			break
		}
		key := prefetchKey(scope, next)
		if _, busy := o.prefetching[key]; busy {
			continue
		}
		o.prefetching[key] = struct{}{}
		pages = append(pages, next)
	}
	o.mu.Unlock()

	results := make([]any, len(pages))
	var g errgroup.Group
	for i, page := range pages {
		g.Go(func() error {
			defer o.releasePrefetch(prefetchKey(scope, page))

			val, err := fetch(ctx, page)
			if err != nil {
				return fmt.Errorf("prefetch page %d: %w", page, err)
			}
			results[i] = val
			o.metrics.prefetchedPage()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Prefetching reports whether page of scope is currently being prefetched.
func (o *Optimizer) Prefetching(scope string, page int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, busy := o.prefetching[prefetchKey(scope, page)]
	return busy
}

func (o *Optimizer) releasePrefetch(key string) {
	o.mu.Lock()
	delete(o.prefetching, key)
	o.mu.Unlock()
}

func prefetchKey(scope string, page int) string {
	return fmt.Sprintf("%s:prefetch:page:%d", scope, page)
}
