// Package metrics exposes Prometheus instrumentation for the settlement API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	SettlementsCreated prometheus.Counter
	SettlementsPaid    prometheus.Counter
	SweeperDeleted     prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates a Metrics set backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SettlementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "walico_settlements_created_total",
			Help: "Number of settlements created.",
		}),
		SettlementsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "walico_settlements_paid_total",
			Help: "Number of settlements confirmed as paid.",
		}),
		SweeperDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "walico_sweeper_deleted_total",
			Help: "Number of expired settlements removed by the sweeper.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walico_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern, and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
