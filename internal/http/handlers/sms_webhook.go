package handlers

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"smsbridge/internal/config"
	"smsbridge/internal/observability/metrics"
	"smsbridge/internal/routing"
	"smsbridge/pkg/logging"
)

var smsTracer = otel.Tracer("smsbridge.internal.http.handlers.sms")

type messageRouter interface {
	Route(ctx context.Context, cfg routing.Config, msg routing.InboundMessage) routing.Outcome
}

// SMSWebhookHandler handles inbound Twilio SMS webhook requests.
type SMSWebhookHandler struct {
	engine     messageRouter
	loadConfig func() *config.Config
	metrics    *metrics.WebhookMetrics
	logger     *logging.Logger
}

// NewSMSWebhookHandler creates the webhook handler. loadConfig is invoked on
// every request so configuration changes apply without a restart; nil selects
// config.Load. Metrics may be nil.
func NewSMSWebhookHandler(engine messageRouter, loadConfig func() *config.Config, m *metrics.WebhookMetrics, logger *logging.Logger) *SMSWebhookHandler {
	if engine == nil {
		panic("handlers: routing engine cannot be nil")
	}
	if loadConfig == nil {
		loadConfig = config.Load
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SMSWebhookHandler{
		engine:     engine,
		loadConfig: loadConfig,
		metrics:    m,
		logger:     logger,
	}
}

// HandleSMS handles POST /webhooks/twilio/sms.
//
// Twilio posts form-encoded From/Body fields. The response is always an empty
// 200 regardless of routing outcome so the provider never retries on
// business-logic failures; only transport-level problems surface upstream.
func (h *SMSWebhookHandler) HandleSMS(w http.ResponseWriter, r *http.Request) {
	ctx, span := smsTracer.Start(r.Context(), "webhook.twilio.sms")
	defer span.End()
	start := time.Now()

	var msg routing.InboundMessage
	if err := r.ParseForm(); err != nil {
		// Treated as malformed input by the engine; still acknowledged.
		h.logger.Warn("failed to parse webhook form", "error", err)
	} else {
		msg.From = r.FormValue("From")
		msg.Body = r.FormValue("Body")
	}
	span.SetAttributes(attribute.String("smsbridge.sms.from", msg.From))

	cfg := h.loadConfig()
	outcome := h.engine.Route(ctx, routing.Config{
		BoardID:            cfg.ContactBoardID,
		PhoneColumnID:      cfg.PhoneColumnID,
		Recipients:         cfg.Recipients,
		FallbackTargetID:   cfg.FallbackTargetID,
		FallbackTargetType: cfg.FallbackTargetType,
	}, msg)

	h.metrics.ObserveInbound(string(outcome))
	h.metrics.ObserveWebhookLatency(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("smsbridge.routing.outcome", string(outcome)))
	h.logger.Info("sms webhook processed", "from", msg.From, "outcome", outcome)

	w.WriteHeader(http.StatusOK)
}
