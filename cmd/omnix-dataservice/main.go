package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"

	"github.com/vladislavprovich/omnix-dataservice/internal/handler"
	"github.com/vladislavprovich/omnix-dataservice/internal/service"
	"github.com/vladislavprovich/omnix-dataservice/internal/worker"
	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/client/omnix"
	logger2 "github.com/vladislavprovich/omnix-dataservice/pkg/logger"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

func main() {
	ctx := context.Background()
	cfg := initConfig(ctx)
	logger, err := logger2.New(ctx, cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}

	registry := initRegistry()
	baseClient := initBasicClient(ctx, logger.Logger, cfg)
	opt := initOptimizer(ctx, logger.Logger, cfg, registry)
	srv := initService(ctx, logger.Logger, baseClient, opt, cfg)

	warmer := initWarmer(ctx, logger.Logger, srv, cfg)

	rend := render.New()
	serviceHandler := initServiceHandler(ctx, srv, warmer, logger.Logger, cfg, rend)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	router := handler.NewRouter(serviceHandler, metricsHandler, logger.Logger, cfg.Server)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Server start. Listening on port", slog.Any("port", cfg.Server.Port))
		if err = httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("could not listen on port %s: %s", cfg.Server.Port, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.InfoContext(ctx, "Server shutdown error", slog.Any("error", err))
	}
	if warmer != nil {
		if err = warmer.Stop(shutdownCtx); err != nil {
			logger.InfoContext(ctx, "Warmer shutdown error", slog.Any("error", err))
		}
	}
	// Let background prefetches finish writing to the cache.
	srv.Wait()

	logger.InfoContext(ctx, "Server gracefully shutdown")
}

func initConfig(ctx context.Context) *Config {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		log.Fatalf("config load error %s", err)
	}

	return cfg
}

func initRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

func initBasicClient(ctx context.Context, logger *slog.Logger, cfg *Config) *omnix.BasicClient {
	logger.InfoContext(ctx, "initializing basic client")
	httpClient := &http.Client{
		Timeout: cfg.Server.HTTPClientTimeout,
	}

	baseClient := omnix.NewBasicClient(httpClient, cfg.Client, logger)

	return baseClient
}

func initOptimizer(
	ctx context.Context,
	logger *slog.Logger,
	cfg *Config,
	registry prometheus.Registerer,
) *optimizer.Optimizer {
	logger.InfoContext(ctx, "initializing query optimizer")

	cacheMetrics := cache.NewMetrics(cfg.MetricsNamespace)
	if err := cacheMetrics.Register(registry); err != nil {
		log.Fatalf("register cache metrics: %s", err)
	}
	optimizerMetrics := optimizer.NewMetrics(cfg.MetricsNamespace)
	if err := optimizerMetrics.Register(registry); err != nil {
		log.Fatalf("register optimizer metrics: %s", err)
	}

	resultCache := cache.New(*cfg.Cache,
		cache.WithMetrics(cacheMetrics),
		cache.WithLogger(logger),
	)

	return optimizer.New(logger, resultCache, *cfg.Optimizer, optimizer.WithMetrics(optimizerMetrics))
}

func initService(
	ctx context.Context,
	logger *slog.Logger,
	basicClient *omnix.BasicClient,
	opt *optimizer.Optimizer,
	cfg *Config,
) *service.Service {
	logger.InfoContext(ctx, "initializing service")
	srv := service.NewOmnixService(ctx, logger, basicClient, opt, *cfg.Service)

	return srv
}

func initWarmer(ctx context.Context, logger *slog.Logger, srv *service.Service, cfg *Config) *worker.Warmer {
	if !cfg.Warmer.Enabled {
		return nil
	}
	logger.InfoContext(ctx, "initializing cache warmer")
	warmer := worker.NewWarmer(logger, srv, *cfg.Warmer)
	if err := warmer.Start(ctx); err != nil {
		log.Fatalf("start cache warmer: %s", err)
	}

	return warmer
}

func initServiceHandler(
	ctx context.Context,
	srv *service.Service,
	warmer *worker.Warmer,
	logger *slog.Logger,
	cfg *Config,
	render *render.Render,
) *handler.ServiceHandler {
	logger.InfoContext(ctx, "initializing service handler")
	var cacheWarmer handler.CacheWarmer
	if warmer != nil {
		cacheWarmer = warmer
	}
	serviceHandler := handler.NewServiceHandler(srv, cacheWarmer, logger, cfg.Server, render)

	return serviceHandler
}
