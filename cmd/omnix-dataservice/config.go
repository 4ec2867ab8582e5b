package main

import (
	"context"
	"fmt"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/vladislavprovich/omnix-dataservice/internal/handler"
	"github.com/vladislavprovich/omnix-dataservice/internal/service"
	"github.com/vladislavprovich/omnix-dataservice/internal/worker"
	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
	"github.com/vladislavprovich/omnix-dataservice/pkg/logger"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

type Config struct {
	Client    *omnix.Config
	Server    *handler.Config
	Logger    *logger.Config
	Cache     *cache.Config
	Optimizer *optimizer.Config
	Service   *service.Config
	Warmer    *worker.Config

	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"omnix"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config

	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found or failed to load: %v\n", err)
	}

	if err = envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load root config: %w", err)
	}

	if err = cfg.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Client, validation.Required),
		validation.Field(&c.Logger, validation.Required),
		validation.Field(&c.Cache, validation.Required),
		validation.Field(&c.Optimizer, validation.Required),
		validation.Field(&c.Service, validation.Required),
		validation.Field(&c.Warmer, validation.Required),
		validation.Field(&c.MetricsNamespace, validation.Required),
	)
}
