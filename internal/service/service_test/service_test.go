package service_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vladislavprovich/omnix-dataservice/internal/service"
	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

type mockOmnixClient struct {
	mock.Mock
}

func (m *mockOmnixClient) GetProducts(ctx context.Context, params map[string]any) (*omnix.ListResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*omnix.ListResponse)
	return resp, args.Error(1)
}

func (m *mockOmnixClient) GetProduct(ctx context.Context, id string) (*omnix.ItemResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*omnix.ItemResponse)
	return resp, args.Error(1)
}

func (m *mockOmnixClient) GetOrders(ctx context.Context, params map[string]any) (*omnix.ListResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*omnix.ListResponse)
	return resp, args.Error(1)
}

func (m *mockOmnixClient) GetCustomers(ctx context.Context, params map[string]any) (*omnix.ListResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*omnix.ListResponse)
	return resp, args.Error(1)
}

func (m *mockOmnixClient) GetDashboardSummary(ctx context.Context, params map[string]any) (*omnix.ItemResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*omnix.ItemResponse)
	return resp, args.Error(1)
}

func (m *mockOmnixClient) GetAnalytics(ctx context.Context, params map[string]any) (*omnix.ListResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*omnix.ListResponse)
	return resp, args.Error(1)
}

func newService(client omnix.Client) *service.Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	resultCache := cache.New(cache.Config{MaxSize: 100, DefaultTTL: time.Minute})
	opt := optimizer.New(logger, resultCache, optimizer.Config{DebounceDelay: 10 * time.Millisecond})

	return service.NewOmnixService(context.Background(), logger, client, opt, service.DefaultConfig())
}

func productList() *omnix.ListResponse {
	return &omnix.ListResponse{
		Message: "Products retrieved",
		Data: []map[string]any{
			{"id": "1", "name": "Green Tea", "category": "food", "price": 12.5},
			{"id": "2", "name": "Black Tea", "category": "food", "price": 9.0},
			{"id": "3", "name": "Teapot", "category": "kitchen", "price": 30.0},
			{"id": "4", "name": "Stapler", "category": "office", "price": 5.0},
		},
		Total: 4,
	}
}
