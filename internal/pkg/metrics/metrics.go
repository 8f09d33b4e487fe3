// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signup"

// Metrics holds the Prometheus collectors of the signup service. Each instance
// owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	stepViews       *prometheus.CounterVec
	redirects       *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	classifications *prometheus.CounterVec
	staleResults    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.stepViews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "step_views_total",
			Help:      "Total number of rendered flow steps",
		},
		[]string{"flow", "step"},
	)
	m.redirects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "redirects_total",
			Help:      "Total number of step redirects by guard",
		},
		[]string{"flow", "reason"},
	)
	m.backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Duration of backend calls",
			Buckets:   []float64{0.005, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"endpoint", "outcome"},
	)
	m.classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "classifications_total",
			Help:      "Total number of scenario classifications by result",
		},
		[]string{"scenario", "stop_reason"},
	)
	m.staleResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "stale_results_total",
			Help:      "Async results dropped because a newer request superseded them",
		},
		[]string{"operation"},
	)

	m.registry.MustRegister(
		m.stepViews,
		m.redirects,
		m.backendDuration,
		m.classifications,
		m.staleResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) StepViewed(flow, step string) {
	if m == nil {
		return
	}
	m.stepViews.WithLabelValues(flow, step).Inc()
}

func (m *Metrics) Redirected(flow, reason string) {
	if m == nil {
		return
	}
	m.redirects.WithLabelValues(flow, reason).Inc()
}

func (m *Metrics) BackendCall(endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendDuration.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

func (m *Metrics) Classified(scenario, stopReason string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(scenario, stopReason).Inc()
}

func (m *Metrics) StaleResult(operation string) {
	if m == nil {
		return
	}
	m.staleResults.WithLabelValues(operation).Inc()
}
