package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for record creation and provider calls.
type Metrics struct {
	RecordsCreated prometheus.Counter
	RecordsStored  prometheus.Gauge

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome={success,rejected,error,circuit_open}
	ProviderDuration *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "records_created_total",
			Help:      "Total weather records created.",
		}),
		RecordsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather",
			Name:      "records_stored",
			Help:      "Number of weather records currently held in memory.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	reg.MustRegister(
		m.RecordsCreated,
		m.RecordsStored,
		m.ProviderRequests,
		m.ProviderDuration,
	)

	return m
}

// NewTestMetrics returns metrics bound to a throwaway registry.
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
