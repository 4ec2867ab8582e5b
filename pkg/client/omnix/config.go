package omnix

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	BaseURL            string        `envconfig:"OMNIX_BASE_URL" default:"http://localhost:3001/v1"`
	APIKey             string        `envconfig:"OMNIX_API_KEY"`
	Timeout            time.Duration `envconfig:"OMNIX_TIMEOUT" default:"10s"`
	BreakerMaxFailures uint32        `envconfig:"OMNIX_BREAKER_MAX_FAILURES" default:"5"`
	BreakerInterval    time.Duration `envconfig:"OMNIX_BREAKER_INTERVAL" default:"60s"`
	BreakerOpenTimeout time.Duration `envconfig:"OMNIX_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required),
		validation.Field(&c.BreakerMaxFailures, validation.Required),
	)
}
