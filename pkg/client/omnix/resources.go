package omnix

import (
	"context"
	"net/url"
)

func (c *BasicClient) GetProducts(ctx context.Context, params map[string]any) (*ListResponse, error) {
	var resp ListResponse
	if err := c.get(ctx, "GetProducts", "/products", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BasicClient) GetProduct(ctx context.Context, id string) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.get(ctx, "GetProduct", "/products/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BasicClient) GetOrders(ctx context.Context, params map[string]any) (*ListResponse, error) {
	var resp ListResponse
	if err := c.get(ctx, "GetOrders", "/orders", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BasicClient) GetCustomers(ctx context.Context, params map[string]any) (*ListResponse, error) {
	var resp ListResponse
	if err := c.get(ctx, "GetCustomers", "/customers", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BasicClient) GetDashboardSummary(ctx context.Context, params map[string]any) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.get(ctx, "GetDashboardSummary", "/dashboard/summary", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BasicClient) GetAnalytics(ctx context.Context, params map[string]any) (*ListResponse, error) {
	var resp ListResponse
	if err := c.get(ctx, "GetAnalytics", "/analytics/sessions", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
