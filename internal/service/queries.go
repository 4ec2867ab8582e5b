package service

import (
	"context"
	"errors"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
)

var ErrMissingID = errors.New("missing id")

func (s *Service) GetDashboardSummary(ctx context.Context, params cache.Params, fresh bool) (*omnix.ItemResponse, error) {
	return executeAs[*omnix.ItemResponse](ctx, s, QueryDashboardSummary, params, fresh)
}

func (s *Service) GetAnalytics(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error) {
	return executeAs[*omnix.ListResponse](ctx, s, QueryDashboardAnalytics, params, fresh)
}

func (s *Service) GetProducts(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error) {
	return executeAs[*omnix.ListResponse](ctx, s, QueryProductsList, params, fresh)
}

func (s *Service) GetProduct(ctx context.Context, id string, fresh bool) (*omnix.ItemResponse, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return executeAs[*omnix.ItemResponse](ctx, s, QueryProductDetail, cache.Params{"id": id}, fresh)
}

func (s *Service) GetOrders(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error) {
	return executeAs[*omnix.ListResponse](ctx, s, QueryOrdersList, params, fresh)
}

func (s *Service) GetCustomers(ctx context.Context, params cache.Params, fresh bool) (*omnix.ListResponse, error) {
	return executeAs[*omnix.ListResponse](ctx, s, QueryCustomersList, params, fresh)
}
