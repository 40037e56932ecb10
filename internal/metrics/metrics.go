// Package metrics exposes Prometheus instrumentation for the reconciliation
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts completed reconciliation runs by outcome
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_runs_total",
		Help: "Number of reconciliation runs by outcome.",
	}, []string{"outcome"})

	// RunDuration observes end-to-end run latency
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconciliation_run_duration_seconds",
		Help:    "End-to-end duration of reconciliation runs.",
		Buckets: prometheus.DefBuckets,
	})

	// PaymentsResolved counts processed payments by match type
	PaymentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_payments_resolved_total",
		Help: "Number of payments processed, by match type.",
	}, []string{"match_type"})

	// BookingIssues counts bookings flagged for review
	BookingIssues = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciliation_booking_issues_total",
		Help: "Number of bookings flagged underpaid or unpaid.",
	})
)
