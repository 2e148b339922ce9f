package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for SMS routing flows.
type WebhookMetrics struct {
	inboundTotal   *prometheus.CounterVec
	workboardCalls *prometheus.CounterVec
	webhookLatency prometheus.Histogram
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smsbridge",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound SMS webhooks by routing outcome",
		}, []string{"outcome"}),
		workboardCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smsbridge",
			Subsystem: "workboard",
			Name:      "api_calls_total",
			Help:      "Total outbound workboard API calls",
		}, []string{"operation", "status"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smsbridge",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of inbound SMS webhook processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.workboardCalls, m.webhookLatency)
	return m
}

func (m *WebhookMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *WebhookMetrics) ObserveWorkboardCall(operation, status string) {
	if m == nil {
		return
	}
	m.workboardCalls.WithLabelValues(operation, status).Inc()
}

func (m *WebhookMetrics) ObserveWebhookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
