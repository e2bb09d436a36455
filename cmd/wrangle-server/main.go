// Package main provides the wrangle HTTP service: the cleaning pipeline
// behind a JSON API, with health and metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/middleware"
	transporthttp "wranglecli/internal/transport/http"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	router := buildRouter(cfg, logger)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			slog.Int("port", cfg.Server.Port),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildRouter(cfg *config.Config, logger *slog.Logger) chi.Router {
	errorHandler := apperrors.NewHandler(logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(rateLimiter.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", transporthttp.NewHealthHandler(version).Routes())
		r.Mount("/wrangle", transporthttp.NewWrangleHandler(logger, errorHandler, cfg.Limits.MaxBodyBytes).Routes())
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
