package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	logger2 "github.com/vladislavprovich/omnix-dataservice/pkg/logger"
)

func NewRouter(handler Handler, metrics http.Handler, logger *slog.Logger, cfg *Config) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.Recoverer)
	mux.Use(chiMiddleware.Timeout(cfg.Timeout))

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "authorization"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge),
	}))

	wrappedLogger := &logger2.Logger{Logger: logger}
	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  wrappedLogger,
		NoColor: true,
	}))

	mux.Get("/health", handler.Health)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	routeURL := fmt.Sprintf("/api/%s/omnix", cfg.APIVersion)
	mux.Route(routeURL, func(r chi.Router) {
		r.Get("/dashboard/summary", handler.DashboardSummary)
		r.Get("/dashboard/analytics", handler.DashboardAnalytics)

		r.Get("/products", handler.Products)
		r.Get("/products/explore", handler.ExploreProducts)
		r.Post("/products/aggregate", handler.AggregateProducts)
		r.Get("/products/{id}", handler.Product)

		r.Get("/orders", handler.Orders)
		r.Get("/customers", handler.Customers)

		r.Get("/cache/stats", handler.CacheStats)
		r.Get("/cache/performance", handler.CachePerformance)
		r.Delete("/cache", handler.InvalidateCache)
		r.Post("/cache/warm", handler.WarmCache)
		r.Get("/cache/warmer", handler.WarmerStats)
	})

	return mux
}
