package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

// Names of the optimized queries.
const (
	QueryDashboardSummary   = "dashboard.summary"
	QueryDashboardAnalytics = "dashboard.analytics"
	QueryProductsList       = "products.list"
	QueryProductDetail      = "products.detail"
	QueryOrdersList         = "orders.list"
	QueryCustomersList      = "customers.list"
)

// Cache endpoints backing the queries.
const (
	endpointDashboardSummary   = "dashboard-summary"
	endpointDashboardAnalytics = "dashboard-analytics"
	endpointProducts           = "products"
	endpointProductDetail      = "product-detail"
	endpointOrders             = "orders"
	endpointCustomers          = "customers"
)

var (
	ErrUnknownQuery    = errors.New("unknown query")
	ErrNoSearchFields  = errors.New("no search fields configured")
	ErrUnexpectedValue = errors.New("unexpected query result")
)

type OmnixService interface {
	Execute(ctx context.Context, name string, params cache.Params, opts cache.Options) (any, error)
	GetDashboardSummary(ctx context.Context, params cache.Params, fresh bool) (*omnix.ItemResponse, error)
	GetAnalytics(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error)
	GetProducts(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error)
	GetProduct(ctx context.Context, id string, fresh bool) (*omnix.ItemResponse, error)
	GetOrders(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error)
	GetCustomers(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error)
	ExploreProducts(ctx context.Context, req *ExploreRequest) (*collection.CursorResult, error)
	ExploreProductsPage(ctx context.Context, req *ExploreRequest) (*collection.OffsetResult, error)
	AggregateProducts(ctx context.Context, req *AggregateRequest) (map[string]any, error)
	BatchProcess(ctx context.Context, name string, items []cache.Params, batchSize int) ([]any, error)
	CacheStats() CacheStats
	PerformanceMetrics() PerformanceMetrics
	InvalidateCache(pattern cache.Pattern) int
	ClearCaches()
	Health(ctx context.Context) *HealthResponse
}

var _ OmnixService = (*Service)(nil)

type Service struct {
	logger    *slog.Logger
	client    omnix.Client
	optimizer *optimizer.Optimizer
	cache     *cache.ResultCache
	cfg       Config

	// queries is filled once by the constructor and read-only afterwards.
	queries map[string]optimizer.QueryFunc

	indexMu sync.RWMutex
	indexes map[string]*searchIndex
}

func NewOmnixService(
	_ context.Context,
	log *slog.Logger,
	client omnix.Client,
	opt *optimizer.Optimizer,
	cfg Config,
) *Service {
	s := &Service{
		logger:    log,
		client:    client,
		optimizer: opt,
		cache:     opt.Cache(),
		cfg:       cfg.withDefaults(),
		indexes:   make(map[string]*searchIndex),
	}
	s.queries = s.buildQueries()

	return s
}

func (s *Service) buildQueries() map[string]optimizer.QueryFunc {
	plain := func(ttl time.Duration) optimizer.QueryConfig {
		return optimizer.QueryConfig{CacheTTL: ttl, EnableDeduplication: true, ServeStaleOnError: true}
	}
	interactive := func(ttl time.Duration) optimizer.QueryConfig {
		return optimizer.QueryConfig{
			CacheTTL:            ttl,
			EnableDeduplication: true,
			EnableDebounce:      true,
			EnablePrefetch:      true,
			ServeStaleOnError:   true,
		}
	}

	products := interactive(s.cfg.ProductsTTL)
	products.KeyStrategy = ProductsKeyStrategy()

	return map[string]optimizer.QueryFunc{
		QueryDashboardSummary:   s.optimizer.NewQuery(endpointDashboardSummary, s.fetchDashboardSummary, plain(s.cfg.DashboardTTL)),
		QueryDashboardAnalytics: s.optimizer.NewQuery(endpointDashboardAnalytics, s.fetchAnalytics, plain(s.cfg.AnalyticsTTL)),
		QueryProductsList:       s.optimizer.NewQuery(endpointProducts, s.fetchProducts, products),
		QueryProductDetail:      s.optimizer.NewQuery(endpointProductDetail, s.fetchProduct, plain(s.cfg.ProductsTTL)),
		QueryOrdersList:         s.optimizer.NewQuery(endpointOrders, s.fetchOrders, interactive(s.cfg.OrdersTTL)),
		QueryCustomersList:      s.optimizer.NewQuery(endpointCustomers, s.fetchCustomers, interactive(s.cfg.CustomersTTL)),
	}
}

// Query returns the optimized query registered under name.
func (s *Service) Query(name string) (optimizer.QueryFunc, error) {
	query, ok := s.queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
	}
	return query, nil
}

func (s *Service) Execute(ctx context.Context, name string, params cache.Params, opts cache.Options) (any, error) {
	query, err := s.Query(name)
	if err != nil {
		return nil, err
	}
	return query(ctx, params, opts)
}

// Wait blocks until background prefetches have finished.
func (s *Service) Wait() {
	s.optimizer.Wait()
}

func executeAs[T any](ctx context.Context, s *Service, name string, params cache.Params, fresh bool) (T, error) {
	var zero T

	var opts cache.Options
	if fresh {
		opts = cache.Options{optimizer.OptionForceFresh: true}
	}

	res, err := s.Execute(ctx, name, params, opts)
	if err != nil {
		return zero, err
	}

	out, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedValue, name, res)
	}
	return out, nil
}
