// Package metrics holds Prometheus instruments that are used across the
// playground.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FormValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validations_total",
			Help: "Validation passes by form, intent, and result (valid, invalid, deferred).",
		}, []string{"form", "intent", "result"})

	FormValidationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validation_errors_total",
			Help: "Validation passes aborted by a system error.",
		}, []string{"form"})

	UniquenessChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniqueness_checks_total",
			Help: "Email uniqueness lookups by directory and result (unique, taken, error).",
		}, []string{"directory", "result"})

	UniquenessCheckSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uniqueness_check_seconds",
			Help:    "Latency of email uniqueness lookups.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5},
		}, []string{"directory"})
)

func init() {
	prometheus.MustRegister(
		FormValidationsTotal,
		FormValidationErrorsTotal,
		UniquenessChecksTotal,
		UniquenessCheckSeconds,
	)
}
