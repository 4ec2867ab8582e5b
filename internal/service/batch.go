package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

// BatchProcess runs the named query for every parameter bag. Bags are
// processed in chunks of batchSize, or the per-resource default, and the
// bags of one chunk run concurrently. Results keep the order of items.
func (s *Service) BatchProcess(ctx context.Context, name string, items []cache.Params, batchSize int) ([]any, error) {
	query, err := s.Query(name)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = s.defaultBatchSize(name)
	}

	s.logger.InfoContext(ctx, "BatchProcess",
		slog.String("query", name),
		slog.Int("items", len(items)),
		slog.Int("batch_size", batchSize),
	)

	return optimizer.Batch(ctx, s.optimizer, name, items,
		func(ctx context.Context, chunk []cache.Params) ([]any, error) {
			// Batch items are distinct queries issued together, never keystrokes.
			opts := cache.Options{optimizer.OptionSkipDebounce: true}
			results := make([]any, len(chunk))
			g, gctx := errgroup.WithContext(ctx)
			for i, params := range chunk {
				g.Go(func() error {
					res, err := query(gctx, params, opts)
					if err != nil {
						return err
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				s.logger.ErrorContext(ctx, "service BatchProcess", slog.Any("error", err))
				return nil, err
			}
			return results, nil
		}, batchSize)
}

func (s *Service) defaultBatchSize(name string) int {
	switch {
	case strings.HasPrefix(name, "products."):
		return s.cfg.ProductsBatchSize
	case strings.HasPrefix(name, "orders."):
		return s.cfg.OrdersBatchSize
	case strings.HasPrefix(name, "customers."):
		return s.cfg.CustomersBatchSize
	default:
		return 0
	}
}
