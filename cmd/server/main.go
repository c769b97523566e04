package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tours-be/internal/bokun"
	"tours-be/internal/booking"
	"tours-be/internal/config"
	"tours-be/internal/handler"
	"tours-be/internal/logger"
	"tours-be/internal/metrics"
	"tours-be/internal/middleware"
	"tours-be/internal/observability/tracing"
	"tours-be/internal/packages"

	"github.com/common-nighthawk/go-figure"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "tours-be"

var startServerFunc = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      serviceName,
		Environment:      cfg.AppEnv,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.L().Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Bokun.AccessKey == "" || cfg.Bokun.SecretKey == "" {
		logger.L().Warn("bokun credentials missing, provider endpoints will fail")
	}

	errCh := make(chan error, 1)
	go func() {
		figure.NewFigure("TOURS", "", true).Print()
		fmt.Println("")
		logger.L().Info("server running",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("bokun_base_url", cfg.Bokun.BaseURL),
			zap.String("bokun_access_key", logger.MaskSecret(cfg.Bokun.AccessKey)),
		)
		if err := startServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires the provider client, services and HTTP stack.
func newServer(cfg *config.Config, registry *prometheus.Registry) http.Handler {
	httpClient := tracing.WrapHTTPClient(&http.Client{Timeout: cfg.Bokun.Timeout})
	providerMetrics := metrics.NewProviderMetrics(registry, metrics.Config{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
	})

	client := bokun.NewClient(bokun.Options{
		BaseURL:            cfg.Bokun.BaseURL,
		AccessKey:          cfg.Bokun.AccessKey,
		SecretKey:          cfg.Bokun.SecretKey,
		OctoToken:          cfg.Bokun.OctoToken,
		RateLimit:          cfg.Bokun.RateLimit,
		Burst:              cfg.Bokun.RateBurst,
		BreakerMaxFailures: cfg.Bokun.BreakerMaxFailures,
		BreakerTimeout:     cfg.Bokun.BreakerTimeout,
	}, httpClient, providerMetrics)

	bokunHandler := handler.NewBokunHandler(
		packages.NewService(client),
		booking.NewService(client),
	)

	router := setupRouter(bokunHandler, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), cfg.StaticDir)

	var h http.Handler = router
	h = middleware.RateLimitMiddleware(cfg.InternalSecretKey)(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = middleware.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}

func setupRouter(bokunHandler *handler.BokunHandler, metricsHandler http.Handler, staticDir string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	bokunHandler.Register(r)

	if strings.TrimSpace(staticDir) != "" {
		r.PathPrefix("/").Handler(spaHandler(staticDir))
	}
	return r
}

// spaHandler serves files from dir and falls back to index.html for client
// side routes.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
