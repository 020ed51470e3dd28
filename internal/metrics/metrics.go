// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Untis transport metrics
	UntisRequestsTotal   *prometheus.CounterVec
	UntisDurationSeconds prometheus.Histogram

	// Normalization metrics
	ParseFailuresTotal *prometheus.CounterVec
	EntriesDeduped     prometheus.Counter

	// Plan cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Singleflight metrics
	SingleflightDedupTotal prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		UntisRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "untisplan_untis_requests_total",
				Help: "Total number of untis monitor requests by status",
			},
			[]string{"status"}, // status: success, empty, remote_error, communication_error
		),

		UntisDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "untisplan_untis_duration_seconds",
				Help:    "Untis monitor request duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),

		ParseFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "untisplan_parse_failures_total",
				Help: "Total number of payload normalization failures by field",
			},
			[]string{"field"}, // field: date, row
		),

		EntriesDeduped: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "untisplan_entries_deduped_total",
				Help: "Total number of duplicate entries collapsed during normalization",
			},
		),

		CacheHitsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "untisplan_cache_hits_total",
				Help: "Total number of plan cache hits",
			},
		),

		CacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "untisplan_cache_misses_total",
				Help: "Total number of plan cache misses",
			},
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "untisplan_singleflight_dedup_total",
				Help: "Total number of fetches coalesced by singleflight",
			},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "untisplan_http_errors_total",
				Help: "Total number of HTTP error responses by route and status",
			},
			[]string{"route", "status"},
		),
	}
}
