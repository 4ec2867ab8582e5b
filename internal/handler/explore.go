package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vladislavprovich/omnix-dataservice/internal/service"
	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

const (
	offsetPageParam = "offsetPage"

	filterPrefix = "filter."
	minPrefix    = "min."
	maxPrefix    = "max."
)

// ExploreProducts serves search, filtering, sorting and paging over one
// upstream product page:
//
//	GET .../products/explore?page=1&search=tea&filter.category=food&min.price=5&max.price=20&sortBy=price&sortOrder=desc&cursor=p7&limit=10
//
// With offsetPage the result is split into numbered pages instead of cursor
// windows.
func (h *ServiceHandler) ExploreProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := &service.ExploreRequest{
		Params:     upstreamParams(query),
		Search:     query.Get("search"),
		Filters:    exploreFilters(query),
		SortBy:     query.Get("sortBy"),
		SortOrder:  collection.SortOrder(strings.ToLower(query.Get("sortOrder"))),
		Cursor:     query.Get("cursor"),
		OffsetPage: intParam(query, offsetPageParam),
		Limit:      intParam(query, "limit"),
		Fresh:      isFresh(r),
	}
	if err := req.ValidateWithContext(ctx); err != nil {
		h.logger.WarnContext(ctx, "invalid ExploreProducts request", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if query.Has(offsetPageParam) {
		resp, err := h.service.ExploreProductsPage(ctx, req)
		if err != nil {
			h.sendError(ctx, w, "ExploreProductsPage", err)
			return
		}
		h.sendJSON(ctx, w, http.StatusOK, resp)
		return
	}

	resp, err := h.service.ExploreProducts(ctx, req)
	if err != nil {
		h.sendError(ctx, w, "ExploreProducts", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) AggregateProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "decode AggregateProducts error", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.ValidateWithContext(ctx); err != nil {
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.AggregateProducts(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "AggregateProducts", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

// upstreamParams keeps the parameters that select the upstream page.
func upstreamParams(query url.Values) map[string]any {
	params := map[string]any{}
	if page := intParam(query, "page"); page > 0 {
		params["page"] = page
	}
	return params
}

func exploreFilters(query url.Values) map[string]any {
	filters := map[string]any{}
	ranges := map[string]*collection.Range{}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(key, filterPrefix):
			field := strings.TrimPrefix(key, filterPrefix)
			if len(values) > 1 {
				filters[field] = values
			} else {
				filters[field] = values[0]
			}
		case strings.HasPrefix(key, minPrefix):
			if bound, err := strconv.ParseFloat(values[0], 64); err == nil {
				rangeFor(ranges, strings.TrimPrefix(key, minPrefix)).Min = bound
			}
		case strings.HasPrefix(key, maxPrefix):
			if bound, err := strconv.ParseFloat(values[0], 64); err == nil {
				rangeFor(ranges, strings.TrimPrefix(key, maxPrefix)).Max = bound
			}
		}
	}

	for field, r := range ranges {
		filters[field] = *r
	}
	return filters
}

func rangeFor(ranges map[string]*collection.Range, field string) *collection.Range {
	r, ok := ranges[field]
	if !ok {
		r = &collection.Range{}
		ranges[field] = r
	}
	return r
}
