package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker"
	"github.com/unrolled/render"

	"github.com/vladislavprovich/omnix-dataservice/internal/service"
	"github.com/vladislavprovich/omnix-dataservice/internal/worker"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

type Handler interface {
	DashboardSummary(w http.ResponseWriter, r *http.Request)
	DashboardAnalytics(w http.ResponseWriter, r *http.Request)
	Products(w http.ResponseWriter, r *http.Request)
	Product(w http.ResponseWriter, r *http.Request)
	Orders(w http.ResponseWriter, r *http.Request)
	Customers(w http.ResponseWriter, r *http.Request)
	ExploreProducts(w http.ResponseWriter, r *http.Request)
	AggregateProducts(w http.ResponseWriter, r *http.Request)
	CacheStats(w http.ResponseWriter, r *http.Request)
	CachePerformance(w http.ResponseWriter, r *http.Request)
	InvalidateCache(w http.ResponseWriter, r *http.Request)
	WarmCache(w http.ResponseWriter, r *http.Request)
	WarmerStats(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

// CacheWarmer refreshes queries on demand. It is optional.
type CacheWarmer interface {
	Submit(ctx context.Context, job *worker.Job) (*worker.Result, error)
	Stats() worker.Stats
}

type ServiceHandler struct {
	service service.OmnixService
	warmer  CacheWarmer
	logger  *slog.Logger
	cfg     *Config
	render  *render.Render
}

func NewServiceHandler(
	srv service.OmnixService,
	warmer CacheWarmer,
	logger *slog.Logger,
	cfg *Config,
	render *render.Render,
) *ServiceHandler {
	return &ServiceHandler{
		service: srv,
		warmer:  warmer,
		logger:  logger,
		cfg:     cfg,
		render:  render,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *ServiceHandler) sendJSON(ctx context.Context, w io.Writer, status int, body any) {
	if err := h.render.JSON(w, status, body); err != nil {
		h.logger.ErrorContext(ctx, "render JSON error", slog.Any("error", err))
	}
}

// sendError maps service errors to HTTP statuses.
func (h *ServiceHandler) sendError(ctx context.Context, w io.Writer, op string, err error) {
	var apiErr *omnix.APIError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		h.logger.WarnContext(ctx, op+" upstream unavailable", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		h.logger.WarnContext(ctx, op+" client error", slog.Any("error", err))
		h.sendJSON(ctx, w, status, ErrorResponse{Error: apiErr.Message})
	case errors.Is(err, service.ErrMissingID), errors.Is(err, service.ErrUnknownQuery),
		errors.Is(err, worker.ErrMissingQuery):
		h.sendJSON(ctx, w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, optimizer.ErrSuperseded):
		h.sendJSON(ctx, w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, worker.ErrNotRunning):
		h.sendJSON(ctx, w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WarnContext(ctx, op+" timed out", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	default:
		h.logger.ErrorContext(ctx, op+" error", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
