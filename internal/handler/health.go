package handler

import (
	"net/http"
)

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := h.service.Health(ctx)

	h.sendJSON(ctx, w, resp.Status, resp)
}
