package omnix

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker"
)

type Client interface {
	GetProducts(ctx context.Context, params map[string]any) (*ListResponse, error)
	GetProduct(ctx context.Context, id string) (*ItemResponse, error)
	GetOrders(ctx context.Context, params map[string]any) (*ListResponse, error)
	GetCustomers(ctx context.Context, params map[string]any) (*ListResponse, error)
	GetDashboardSummary(ctx context.Context, params map[string]any) (*ItemResponse, error)
	GetAnalytics(ctx context.Context, params map[string]any) (*ListResponse, error)
}

type BasicClient struct {
	client  *http.Client
	logger  *slog.Logger
	cfg     *Config
	breaker *gobreaker.CircuitBreaker
}

func NewBasicClient(httpClient *http.Client, cfg *Config, log *slog.Logger) *BasicClient {
	c := &BasicClient{
		client: httpClient,
		logger: log,
		cfg:    cfg,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "omnix-api",
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		// Client errors say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
	})

	return c
}

// BreakerState reports the circuit breaker state, e.g. for health checks.
func (c *BasicClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}
