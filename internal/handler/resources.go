package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *ServiceHandler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetDashboardSummary(ctx, queryParams(r.URL.Query()), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetDashboardSummary", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) DashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetAnalytics(ctx, queryParams(r.URL.Query()), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetAnalytics", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetProducts(ctx, queryParams(r.URL.Query()), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetProducts", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) Product(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetProduct(ctx, chi.URLParam(r, "id"), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetProduct", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetOrders(ctx, queryParams(r.URL.Query()), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetOrders", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) Customers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.GetCustomers(ctx, queryParams(r.URL.Query()), isFresh(r))
	if err != nil {
		h.sendError(ctx, w, "GetCustomers", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}
