// Package metrics provides Prometheus instrumentation for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram

	// Sheet fetch metrics
	SheetFetchesTotal   *prometheus.CounterVec
	SheetFetchDuration  prometheus.Histogram
	CatalogCourses      prometheus.Gauge
	SingleflightShared  prometheus.Counter

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Pipeline metrics
	ResolverOutcomes   *prometheus.CounterVec
	RepliesTotal       *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_webhook_requests_total",
				Help: "Total inbound webhook requests by status",
			},
			[]string{"status"}, // status: ok, rate_limited
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coursebot_webhook_duration_seconds",
				Help:    "Inbound message handling duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
			},
		),

		SheetFetchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_sheet_fetches_total",
				Help: "Course sheet fetch attempts by status",
			},
			[]string{"status"}, // status: success, transport_error, schema_error
		),

		SheetFetchDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coursebot_sheet_fetch_duration_seconds",
				Help:    "Course sheet fetch duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
			},
		),

		CatalogCourses: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "coursebot_catalog_courses",
				Help: "Number of courses in the current catalog snapshot",
			},
		),

		SingleflightShared: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "coursebot_sheet_singleflight_shared_total",
				Help: "Refreshes that piggybacked on an in-flight sheet fetch",
			},
		),

		CacheHitsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "coursebot_catalog_cache_hits_total",
				Help: "Catalog reads served from a fresh snapshot",
			},
		),

		CacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "coursebot_catalog_cache_misses_total",
				Help: "Catalog reads that triggered a sheet fetch",
			},
		),

		ResolverOutcomes: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_resolver_outcomes_total",
				Help: "Course resolution outcomes by stage",
			},
			[]string{"stage"}, // stage: alias, keyword, substring, tokens, session, none
		),

		RepliesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_replies_total",
				Help: "Composed replies by kind",
			},
			[]string{"kind"}, // kind: greeting, handoff, intents, faq, card, prompt, apology
		),

		NotificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursebot_notifications_total",
				Help: "Advisor handoff notification attempts by status",
			},
			[]string{"status"}, // status: sent, failed, disabled
		),

		RateLimitedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "coursebot_rate_limited_total",
				Help: "Inbound messages rejected by the per-sender rate limit",
			},
		),
	}
}
