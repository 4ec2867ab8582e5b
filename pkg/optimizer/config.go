package optimizer

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultBatchSize        = 50
	DefaultDebounceDelay    = 300 * time.Millisecond
	DefaultPrefetchDistance = 2
)

type Config struct {
	BatchSize        int           `envconfig:"OPTIMIZER_BATCH_SIZE" default:"50"`
	DebounceDelay    time.Duration `envconfig:"OPTIMIZER_DEBOUNCE_DELAY" default:"300ms"`
	PrefetchDistance int           `envconfig:"OPTIMIZER_PREFETCH_DISTANCE" default:"2"`
	// StrictDebounce rejects superseded debounced callers with ErrSuperseded
	// instead of handing them the result of the newer call.
	StrictDebounce bool `envconfig:"OPTIMIZER_STRICT_DEBOUNCE" default:"false"`
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.BatchSize, validation.Min(1)),
		validation.Field(&c.DebounceDelay, validation.Min(0)),
		validation.Field(&c.PrefetchDistance, validation.Min(1)),
	)
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = DefaultDebounceDelay
	}
	if c.PrefetchDistance <= 0 {
		c.PrefetchDistance = DefaultPrefetchDistance
	}
	return c
}
