package worker

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Enabled        bool          `envconfig:"WARMER_ENABLED" default:"true"`
	Concurrency    int           `envconfig:"WARMER_CONCURRENCY" default:"2"`
	QueueSize      int           `envconfig:"WARMER_QUEUE_SIZE" default:"16"`
	Interval       time.Duration `envconfig:"WARMER_INTERVAL" default:"1m"`
	RequestTimeout time.Duration `envconfig:"WARMER_REQUEST_TIMEOUT" default:"10s"`
	// Queries are refreshed on every tick.
	Queries []string `envconfig:"WARMER_QUERIES" default:"dashboard.summary,products.list"`
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.QueueSize, validation.Min(0)),
		validation.Field(&c.Interval, validation.Min(0)),
		validation.Field(&c.RequestTimeout, validation.Min(0)),
		validation.Field(&c.Queries, validation.Each(validation.Required)),
	)
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = c.Concurrency * 2
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	return c
}
