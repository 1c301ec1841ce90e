// Package metrics provides Prometheus metrics for the diamond points engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recompute outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine metrics
	recomputeRuns     *prometheus.CounterVec
	recordsWritten    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	combinedAthletes  prometheus.Gauge
	storeErrors       *prometheus.CounterVec
	lockWait          prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "diamond",
		subsystem:        "points",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recomputeRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recompute_runs_total",
		Help:        "Recompute operations by operation and outcome",
		ConstLabels: m.constLabels,
	}, []string{"operation", "outcome"})

	m.recordsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_written_total",
		Help:        "Records written back to the store by operation",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.recomputeDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recompute_duration_milliseconds",
		Help:        "Recompute duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.combinedAthletes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "combined_athletes",
		Help:        "Athletes in the combined table after the last rebuild",
		ConstLabels: m.constLabels,
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_errors_total",
		Help:        "Record store failures by operation",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.lockWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lock_wait_milliseconds",
		Help:        "Time spent waiting for the single-writer lock",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordRecompute counts one run of operation with the given outcome.
func RecordRecompute(operation, outcome string) {
	globalManager.recomputeRuns.WithLabelValues(operation, outcome).Inc()
}

// RecordRecordsWritten adds n written records for operation.
func RecordRecordsWritten(operation string, n int) {
	globalManager.recordsWritten.WithLabelValues(operation).Add(float64(n))
}

// RecordRecomputeDuration observes how long operation took.
func RecordRecomputeDuration(operation string, durationMs float64) {
	globalManager.recomputeDuration.WithLabelValues(operation).Observe(durationMs)
}

// UpdateCombinedAthletes sets the combined table size.
func UpdateCombinedAthletes(n int) {
	globalManager.combinedAthletes.Set(float64(n))
}

// RecordStoreError counts a store failure seen by operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

// RecordLockWait observes lock acquisition latency.
func RecordLockWait(waitMs float64) {
	globalManager.lockWait.Observe(waitMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
