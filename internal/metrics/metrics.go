package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Gestures        *prometheus.CounterVec
	StatusCommits   *prometheus.CounterVec
	StoreUpdates    *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		Gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_gestures_total",
				Help: "Finished board gestures by outcome",
			},
			[]string{"outcome"},
		),
		StatusCommits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_status_commits_total",
				Help: "Background task status writes by result",
			},
			[]string{"result"},
		),
		StoreUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_database_updates_total",
				Help: "User database read-modify-write cycles by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.Gestures,
		m.StatusCommits,
		m.StoreUpdates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
