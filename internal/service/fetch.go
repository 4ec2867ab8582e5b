package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

func (s *Service) fetchDashboardSummary(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetDashboardSummary", slog.Any("params", params))

	resp, err := s.client.GetDashboardSummary(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetDashboardSummary", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

func (s *Service) fetchAnalytics(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetAnalytics", slog.Any("params", params))

	resp, err := s.client.GetAnalytics(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetAnalytics", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

func (s *Service) fetchProducts(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetProducts", slog.Any("params", params))

	resp, err := s.client.GetProducts(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetProducts", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

func (s *Service) fetchProduct(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetProduct", slog.Any("params", params))

	resp, err := s.client.GetProduct(ctx, fmt.Sprint(params["id"]))
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetProduct", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

func (s *Service) fetchOrders(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetOrders", slog.Any("params", params))

	resp, err := s.client.GetOrders(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetOrders", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

func (s *Service) fetchCustomers(ctx context.Context, params cache.Params, _ cache.Options) (any, error) {
	s.logger.InfoContext(ctx, "GetCustomers", slog.Any("params", params))

	resp, err := s.client.GetCustomers(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.GetCustomers", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}
