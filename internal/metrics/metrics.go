package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sci_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sci_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed.
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sci_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// ModerationDecisions counts approve/reject decisions taken by admins.
	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sci_moderation_decisions_total",
			Help: "Total number of competition moderation decisions",
		},
		[]string{"decision"},
	)
)
