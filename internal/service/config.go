package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

type Config struct {
	DashboardTTL       time.Duration `envconfig:"SERVICE_DASHBOARD_TTL" default:"2m"`
	AnalyticsTTL       time.Duration `envconfig:"SERVICE_ANALYTICS_TTL" default:"1m"`
	ProductsTTL        time.Duration `envconfig:"SERVICE_PRODUCTS_TTL" default:"5m"`
	OrdersTTL          time.Duration `envconfig:"SERVICE_ORDERS_TTL" default:"3m"`
	CustomersTTL       time.Duration `envconfig:"SERVICE_CUSTOMERS_TTL" default:"10m"`
	ProductsBatchSize  int           `envconfig:"SERVICE_PRODUCTS_BATCH_SIZE" default:"50"`
	OrdersBatchSize    int           `envconfig:"SERVICE_ORDERS_BATCH_SIZE" default:"25"`
	CustomersBatchSize int           `envconfig:"SERVICE_CUSTOMERS_BATCH_SIZE" default:"100"`
	SearchMinScore     float64       `envconfig:"SERVICE_SEARCH_MIN_SCORE" default:"0.3"`
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.DashboardTTL, validation.Required),
		validation.Field(&c.AnalyticsTTL, validation.Required),
		validation.Field(&c.ProductsTTL, validation.Required),
		validation.Field(&c.OrdersTTL, validation.Required),
		validation.Field(&c.CustomersTTL, validation.Required),
		validation.Field(&c.ProductsBatchSize, validation.Min(1)),
		validation.Field(&c.OrdersBatchSize, validation.Min(1)),
		validation.Field(&c.CustomersBatchSize, validation.Min(1)),
		validation.Field(&c.SearchMinScore, validation.Min(0.0)),
	)
}

func (c Config) withDefaults() Config {
	setDuration(&c.DashboardTTL, 2*time.Minute)
	setDuration(&c.AnalyticsTTL, time.Minute)
	setDuration(&c.ProductsTTL, 5*time.Minute)
	setDuration(&c.OrdersTTL, 3*time.Minute)
	setDuration(&c.CustomersTTL, 10*time.Minute)
	setInt(&c.ProductsBatchSize, 50)
	setInt(&c.OrdersBatchSize, 25)
	setInt(&c.CustomersBatchSize, 100)
	if c.SearchMinScore <= 0 {
		c.SearchMinScore = collection.DefaultMinScore
	}
	return c
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

func setInt(n *int, def int) {
	if *n <= 0 {
		*n = def
	}
}
