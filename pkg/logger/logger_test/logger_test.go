package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/omnix-dataservice/pkg/logger"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(context.Background(), &logger.Config{
		Level:       "warn",
		Format:      "json",
		ServiceName: "omnix-dataservice",
	}, &buf)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("cache miss storm", "endpoint", "products")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "cache miss storm", record["msg"])
	assert.Equal(t, "omnix-dataservice", record["service"])
	assert.Equal(t, "products", record["endpoint"])
}

func TestLogger_Printf(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(context.Background(), &logger.Config{Level: "info", Format: "text"}, &buf)
	require.NoError(t, err)

	log.Printf("GET %s %d", "/health", 200)
	assert.Contains(t, buf.String(), `msg="GET /health 200"`)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}{
		{name: "valid", cfg: logger.Config{Level: "debug", Format: "text"}},
		{name: "upper_case", cfg: logger.Config{Level: "ERROR", Format: "JSON"}},
		{name: "bad_level", cfg: logger.Config{Level: "verbose", Format: "json"}, wantErr: true},
		{name: "bad_format", cfg: logger.Config{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateWithContext(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
