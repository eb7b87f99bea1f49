package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments used by the admin service.
// Each Metrics value carries its own registry so tests can build servers
// independently.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	LedgerErrors  *prometheus.CounterVec
	StatusUpdates prometheus.Counter
}

// NewMetrics builds the admin instrument set under the given namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Admin API requests by handler and outcome.",
		}, []string{"handler", "outcome"}),
		LedgerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_errors_total",
			Help:      "Ledger operation failures by handler.",
		}, []string{"handler"}),
		StatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_updates_total",
			Help:      "Upgrade request status amendments applied.",
		}),
	}
}

// Handler serves the metrics registered on this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
