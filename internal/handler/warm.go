package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vladislavprovich/omnix-dataservice/internal/worker"
)

type WarmRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
}

// WarmCache refreshes one named query through the warmer pool and reports
// the outcome. The upstream error, if any, is part of the result body.
func (h *ServiceHandler) WarmCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.warmer == nil {
		h.sendError(ctx, w, "WarmCache", worker.ErrNotRunning)
		return
	}

	var req WarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "decode WarmCache error", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.warmer.Submit(ctx, &worker.Job{Query: req.Query, Params: req.Params})
	if err != nil {
		h.sendError(ctx, w, "WarmCache", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, res)
}

func (h *ServiceHandler) WarmerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.warmer == nil {
		h.sendError(ctx, w, "WarmerStats", worker.ErrNotRunning)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, h.warmer.Stats())
}
