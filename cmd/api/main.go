package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smsbridge/internal/api/router"
	appconfig "smsbridge/internal/config"
	"smsbridge/internal/http/handlers"
	"smsbridge/internal/monday"
	"smsbridge/internal/observability/metrics"
	"smsbridge/internal/routing"
	"smsbridge/pkg/logging"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting smsbridge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	// The API key is resolved per call so rotated credentials apply without a
	// restart. Board, recipients, and fallback config are re-read per request
	// inside the webhook handler for the same reason.
	board := monday.NewClient(cfg.MondayAPIURL, func() string {
		return os.Getenv("MONDAY_API_KEY")
	}, webhookMetrics, logger)
	engine := routing.NewEngine(board, logger)

	routerCfg := &router.Config{
		Logger:         logger,
		SMSWebhook:     handlers.NewSMSWebhookHandler(engine, appconfig.Load, webhookMetrics, logger),
		Health:         handlers.NewHealthHandler(appconfig.Load, logger),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
