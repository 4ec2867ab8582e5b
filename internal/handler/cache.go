package handler

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

type InvalidateResponse struct {
	Removed int  `json:"removed"`
	Cleared bool `json:"cleared,omitempty"`
}

func (h *ServiceHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(r.Context(), w, http.StatusOK, h.service.CacheStats())
}

func (h *ServiceHandler) CachePerformance(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(r.Context(), w, http.StatusOK, h.service.PerformanceMetrics())
}

// InvalidateCache removes the entries selected by one of the key, pattern
// (glob) or regex query parameters. Without any of them every cache and
// search index is cleared.
func (h *ServiceHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var pattern cache.Pattern
	switch {
	case query.Has("key"):
		pattern = cache.ExactKey(query.Get("key"))
	case query.Has("pattern"):
		pattern = cache.Glob(query.Get("pattern"))
	case query.Has("regex"):
		re, err := regexp.Compile(query.Get("regex"))
		if err != nil {
			h.logger.WarnContext(ctx, "invalid invalidation regex", slog.Any("error", err))
			h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		pattern = cache.KeyRegexp(re)
	default:
		removed := h.service.CacheStats().Query.Size
		h.service.ClearCaches()
		h.sendJSON(ctx, w, http.StatusOK, InvalidateResponse{Removed: removed, Cleared: true})
		return
	}

	removed := h.service.InvalidateCache(pattern)
	h.sendJSON(ctx, w, http.StatusOK, InvalidateResponse{Removed: removed})
}
