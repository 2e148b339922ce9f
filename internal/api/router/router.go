package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"smsbridge/internal/http/handlers"
	httpmiddleware "smsbridge/internal/http/middleware"
	"smsbridge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	SMSWebhook     *handlers.SMSWebhookHandler
	Health         *handlers.HealthHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
	}
	if cfg.SMSWebhook != nil {
		r.Post("/webhooks/twilio/sms", cfg.SMSWebhook.HandleSMS)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
