package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Batch splits items into chunks of batchSize (the optimizer default when
// not positive), runs process on each chunk in sequence and concatenates the
// results in input order. Each chunk runs deduplicated under a key derived
// from the endpoint, its offset and its content. The first failing chunk
// stops the batch and its error is returned as is.
func Batch[T, R any](
	ctx context.Context,
	o *Optimizer,
	endpoint string,
	items []T,
	process func(ctx context.Context, chunk []T) ([]R, error),
	batchSize int,
) ([]R, error) {
	if batchSize <= 0 {
		batchSize = o.cfg.BatchSize
	}

	results := make([]R, 0, len(items))
	for start := 0; start < len(items); start += batchSize {
		chunk := items[start:min(start+batchSize, len(items))]
		key := fmt.Sprintf("%s:batch:%d:%s", endpoint, start, chunkDigest(chunk))

		out, err := o.Deduplicate(ctx, key, func() (any, error) {
			return process(ctx, chunk)
		})
		if err != nil {
			return nil, err
		}

		part, _ := out.([]R)
		results = append(results, part...)
	}

	return results, nil
}

func chunkDigest[T any](chunk []T) string {
	h := fnv.New64a()
	if raw, err := json.Marshal(chunk); err == nil {
		_, _ = h.Write(raw)
	} else {
		_, _ = fmt.Fprintf(h, "%v", chunk)
	}
	return fmt.Sprintf("%x", h.Sum64())
}
