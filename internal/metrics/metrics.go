// Package metrics exposes Prometheus instrumentation for provider fetches and
// ticker lookups.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for provider fetches
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Registry holds all metrics of the service
type Registry struct {
	// ProviderFetches counts fetches by provider and outcome
	ProviderFetches *prometheus.CounterVec

	// ProviderDuration tracks how long each provider takes to answer
	ProviderDuration *prometheus.HistogramVec

	// Lookups counts aggregated lookups by response status code
	Lookups *prometheus.CounterVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		ProviderFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockgood_provider_fetch_total",
				Help: "Total number of provider fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockgood_provider_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"provider"},
		),

		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockgood_lookups_total",
				Help: "Total number of ticker lookups by response status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(r.ProviderFetches, r.ProviderDuration, r.Lookups)
	return r
}

// ObserveFetch records one provider fetch. A nil Registry records nothing.
func (r *Registry) ObserveFetch(provider string, failed bool, took time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeFailure
	}
	r.ProviderFetches.WithLabelValues(provider, outcome).Inc()
	r.ProviderDuration.WithLabelValues(provider).Observe(took.Seconds())
}

// ObserveLookup records one aggregated lookup. A nil Registry records nothing.
func (r *Registry) ObserveLookup(status int) {
	if r == nil {
		return
	}
	r.Lookups.WithLabelValues(strconv.Itoa(status)).Inc()
}
