package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the service
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Clustering Metrics
	ClusterRunsTotal      *prometheus.CounterVec
	ClusterDuration       *prometheus.HistogramVec
	ClustersReturned      *prometheus.HistogramVec
	ClusterMarkersScanned *prometheus.HistogramVec

	// Catalog Metrics
	CatalogLanguages    prometheus.Gauge
	CatalogImportsTotal *prometheus.CounterVec
	CatalogDeletesTotal prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initHTTPMetrics()
	r.initClusterMetrics()
	r.initCatalogMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingua_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingua_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

func (r *Registry) initClusterMetrics() {
	r.ClusterRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingua_cluster_runs_total",
			Help: "Total number of point selections by display mode and tier",
		},
		[]string{"mode", "tier", "status"},
	)

	r.ClusterDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingua_cluster_duration_seconds",
			Help:    "Point selection duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"mode"},
	)

	r.ClustersReturned = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingua_clusters_returned",
			Help:    "Number of points returned per selection",
			Buckets: []float64{1, 10, 50, 100, 500, 1000},
		},
		[]string{"mode"},
	)

	r.ClusterMarkersScanned = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingua_cluster_markers_scanned",
			Help:    "Number of markers considered per selection",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		},
		[]string{"mode"},
	)
}

func (r *Registry) initCatalogMetrics() {
	r.CatalogLanguages = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lingua_catalog_languages",
			Help: "Number of languages in the catalog at the last read",
		},
	)

	r.CatalogImportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingua_catalog_imports_total",
			Help: "Total number of catalog imports",
		},
		[]string{"status"},
	)

	r.CatalogDeletesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "lingua_catalog_deletes_total",
			Help: "Total number of languages deleted",
		},
	)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSelection records one display-mode point selection
func (r *Registry) RecordSelection(mode, tier, status string, duration time.Duration, markers, points int) {
	r.ClusterRunsTotal.WithLabelValues(mode, tier, status).Inc()
	r.ClusterDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if status == "ok" {
		r.ClustersReturned.WithLabelValues(mode).Observe(float64(points))
		r.ClusterMarkersScanned.WithLabelValues(mode).Observe(float64(markers))
	}
}

func (r *Registry) SetCatalogSize(n int) {
	r.CatalogLanguages.Set(float64(n))
}

func (r *Registry) RecordImport(status string) {
	r.CatalogImportsTotal.WithLabelValues(status).Inc()
}

func (r *Registry) RecordDelete() {
	r.CatalogDeletesTotal.Inc()
}
