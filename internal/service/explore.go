package service

import (
	"context"
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

type ExploreRequest struct {
	// Params select the upstream page the exploration runs over.
	Params    cache.Params
	Search    string
	Filters   map[string]any
	SortBy    string
	SortOrder collection.SortOrder
	Cursor    string
	// OffsetPage selects a numbered page of the explored result instead of
	// a cursor window. It is used by ExploreProductsPage.
	OffsetPage int
	Limit      int
	Fresh      bool
}

type AggregateRequest struct {
	Params       cache.Params                      `json:"params"`
	Aggregations map[string]collection.Aggregation `json:"aggregations"`
	Fresh        bool                              `json:"fresh"`
}

const maxExploreLimit = 500

func (r *ExploreRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.Limit, validation.Min(0), validation.Max(maxExploreLimit)),
		validation.Field(&r.OffsetPage, validation.Min(0)),
		validation.Field(&r.Cursor, validation.When(r.OffsetPage > 0, validation.Empty)),
		validation.Field(&r.SortOrder, validation.In(collection.Asc, collection.Desc)),
	)
}

func (r *AggregateRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.Aggregations,
			validation.Required,
			validation.Each(validation.By(validateAggregation)),
		),
	)
}

func validateAggregation(value any) error {
	agg, ok := value.(collection.Aggregation)
	if !ok {
		return errors.New("must be an aggregation")
	}
	if agg.Field == "" {
		return errors.New("field is required")
	}
	return nil
}

// ExploreProducts runs search, filters, sort and cursor paging over the
// cached product list selected by req.Params.
func (s *Service) ExploreProducts(ctx context.Context, req *ExploreRequest) (*collection.CursorResult, error) {
	data, err := s.exploreProducts(ctx, req)
	if err != nil {
		return nil, err
	}

	page, _ := s.Paginate(data, PageRequest{UseCursor: true, Cursor: req.Cursor, Limit: req.Limit}).(collection.CursorResult)
	return &page, nil
}

// ExploreProductsPage is ExploreProducts with numbered pages.
func (s *Service) ExploreProductsPage(ctx context.Context, req *ExploreRequest) (*collection.OffsetResult, error) {
	data, err := s.exploreProducts(ctx, req)
	if err != nil {
		return nil, err
	}

	page, _ := s.Paginate(data, PageRequest{Page: req.OffsetPage, Limit: req.Limit}).(collection.OffsetResult)
	return &page, nil
}

func (s *Service) exploreProducts(ctx context.Context, req *ExploreRequest) ([]collection.Record, error) {
	s.logger.InfoContext(ctx, "ExploreProducts", slog.Any("req", req))

	products, err := s.GetProducts(ctx, req.Params, req.Fresh)
	if err != nil {
		s.logger.ErrorContext(ctx, "service GetProducts", slog.Any("error", err))
		return nil, err
	}

	data := products.Data
	if req.Search != "" {
		if err = s.ensureIndex(endpointProducts, data); err != nil {
			return nil, err
		}
		data = s.Search(endpointProducts, data, req.Search, 0)
	}
	data = s.ApplyFilters(data, req.Filters)

	return s.ApplySort(data, req.SortBy, req.SortOrder), nil
}

// AggregateProducts evaluates aggregations over the cached product list
// selected by req.Params.
func (s *Service) AggregateProducts(ctx context.Context, req *AggregateRequest) (map[string]any, error) {
	s.logger.InfoContext(ctx, "AggregateProducts", slog.Any("req", req))

	products, err := s.GetProducts(ctx, req.Params, req.Fresh)
	if err != nil {
		s.logger.ErrorContext(ctx, "service GetProducts", slog.Any("error", err))
		return nil, err
	}

	return collection.Aggregate(products.Data, req.Aggregations), nil
}
