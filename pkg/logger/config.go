package logger

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Level       string `envconfig:"LOGGER_LEVEL" default:"info"`
	Format      string `envconfig:"LOGGER_FORMAT" default:"json"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"omnix-dataservice"`
	WithSource  bool   `envconfig:"LOGGER_WITH_SOURCE" default:"false"`
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Level, validation.By(func(value interface{}) error {
			if _, ok := getLevelMap()[strings.ToLower(value.(string))]; !ok {
				return validation.NewError("validation_log_level", "invalid log level")
			}
			return nil
		})),
		validation.Field(&c.Format, validation.In("json", "text", "JSON", "TEXT")),
	)
}
