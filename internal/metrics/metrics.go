// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookEventsTotal     *prometheus.CounterVec

	// AI metrics
	AIRequestsTotal      *prometheus.CounterVec
	AIDurationSeconds    *prometheus.HistogramVec
	AIChainAdvances      *prometheus.CounterVec
	AIActiveIndex        prometheus.Gauge
	KeywordFallbackTotal *prometheus.CounterVec

	// Delivery metrics
	DeliveriesTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Session metrics
	SessionErrorsTotal *prometheus.CounterVec
	SessionEntries     prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hestia_webhook_duration_seconds",
				Help:    "Time to handle one messaging event, from receipt to delivery",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"event_type"},
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_webhook_events_total",
				Help: "Messaging events handled by type and status",
			},
			[]string{"event_type", "status"}, // status: success, delivery_error, rate_limited, panic; "delivery" rows count whole POSTs
		),

		AIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_ai_requests_total",
				Help: "Generation attempts by provider, model and outcome",
			},
			[]string{"provider", "model", "status"}, // status: success, rate_limit, timeout, error
		),

		AIDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hestia_ai_duration_seconds",
				Help:    "Generation attempt latency by provider",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 12, 15},
			},
			[]string{"provider"},
		),

		AIChainAdvances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_ai_chain_advances_total",
				Help: "Times the model chain moved past a model, by reason",
			},
			[]string{"model", "reason"}, // reason: rate_limit, consecutive_failures
		),

		AIActiveIndex: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hestia_ai_active_index",
				Help: "Position in the model chain where the next request starts",
			},
		),

		KeywordFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_keyword_fallback_total",
				Help: "Replies served from keyword matching because no model answered",
			},
			[]string{"language"},
		),

		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_deliveries_total",
				Help: "Outbound Send API calls by kind and status",
			},
			[]string{"kind", "status"}, // kind: message, typing; status: ok, auth_error, request_error, server_error, transport_error, timeout
		),

		RateLimiterDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_rate_limiter_dropped_total",
				Help: "Requests dropped by rate limiter",
			},
			[]string{"limiter"}, // limiter: user, send
		),

		SessionErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hestia_session_errors_total",
				Help: "Session store failures by operation",
			},
			[]string{"op"}, // op: get, set
		),

		SessionEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hestia_session_entries",
				Help: "Users with a remembered language",
			},
		),
	}
}

// RecordWebhook records one handled messaging event
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookEventsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordAIRequest records one generation attempt
func (m *Metrics) RecordAIRequest(provider, model, status string, duration float64) {
	m.AIRequestsTotal.WithLabelValues(provider, model, status).Inc()
	m.AIDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordChainAdvance records the chain moving past model
func (m *Metrics) RecordChainAdvance(model, reason string, activeIndex int) {
	m.AIChainAdvances.WithLabelValues(model, reason).Inc()
	m.AIActiveIndex.Set(float64(activeIndex))
}

// SetActiveIndex records the current chain position
func (m *Metrics) SetActiveIndex(activeIndex int) {
	m.AIActiveIndex.Set(float64(activeIndex))
}

// RecordKeywordFallback records a reply served without a model
func (m *Metrics) RecordKeywordFallback(language string) {
	m.KeywordFallbackTotal.WithLabelValues(language).Inc()
}

// RecordDelivery records an outbound Send API call
func (m *Metrics) RecordDelivery(kind, status string) {
	m.DeliveriesTotal.WithLabelValues(kind, status).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// RecordSessionError records a failed session store call
func (m *Metrics) RecordSessionError(op string) {
	m.SessionErrorsTotal.WithLabelValues(op).Inc()
}

// SetSessionEntries records the session store size
func (m *Metrics) SetSessionEntries(n int) {
	m.SessionEntries.Set(float64(n))
}
