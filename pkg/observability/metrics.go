package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	ResolutionNodes    prometheus.Histogram
	CycleErrorsTotal   prometheus.Counter

	// Registry metrics
	RegistryReloadsTotal *prometheus.CounterVec
	RegistryScopes       prometheus.Gauge
	RegistryBinaries     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarry_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quarry_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarry_resolutions_total",
				Help: "Total number of dependent-binaries resolutions by outcome",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quarry_resolution_duration_seconds",
				Help:    "Dependent-binaries resolution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ResolutionNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quarry_resolution_result_nodes",
				Help:    "Number of nodes in resolved dependents trees",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		CycleErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quarry_cycle_errors_total",
				Help: "Total number of circular dependency errors",
			},
		),
		RegistryReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarry_registry_reloads_total",
				Help: "Total number of workspace registry reloads by status",
			},
			[]string{"status"},
		),
		RegistryScopes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "quarry_registry_scopes",
				Help: "Number of scopes in the active registry",
			},
		),
		RegistryBinaries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "quarry_registry_binaries",
				Help: "Number of native binaries in the active registry",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.ResolutionNodes,
		m.CycleErrorsTotal,
		m.RegistryReloadsTotal,
		m.RegistryScopes,
		m.RegistryBinaries,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveResolution records one completed resolution request.
func (m *Metrics) ObserveResolution(outcome string, nodes int, duration time.Duration) {
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.ResolutionDuration.Observe(duration.Seconds())
	m.ResolutionNodes.Observe(float64(nodes))
}
