// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ROICalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "praxis_roi_calculations_total",
			Help: "Total number of ROI estimates computed",
		},
		[]string{"profession"},
	)

	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "praxis_lead_submissions_total",
			Help: "Total number of contact submissions by outcome",
		},
		[]string{"outcome"},
	)

	LeadValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "praxis_lead_validation_failures_total",
			Help: "Total number of contact form field failures",
		},
		[]string{"field"},
	)

	LeadStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "praxis_lead_status_updates_total",
			Help: "Total number of admin status changes",
		},
		[]string{"status"},
	)

	ProfilingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "praxis_profiling_events_total",
			Help: "Total number of profiling events applied",
		},
		[]string{"type"},
	)

	SessionStoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "praxis_session_store_failures_total",
			Help: "Total number of swallowed profiling store write failures",
		},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "praxis_operation_duration_seconds",
			Help:    "Duration of tracked operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "success"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "praxis_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "praxis_admin_feed_clients",
			Help: "Number of connected admin feed clients",
		},
	)
)

// Outcome labels for LeadSubmissions.
const (
	OutcomeStored   = "stored"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeInFlight = "in_flight"
)

// ObserveOperation records a completed operation.
func ObserveOperation(operation string, success bool, d time.Duration) {
	label := "false"
	if success {
		label = "true"
	}
	OperationDuration.WithLabelValues(operation, label).Observe(d.Seconds())
}
