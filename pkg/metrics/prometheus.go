// Package metrics provides Prometheus metrics for the fantabet grading service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the grading service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - the settlement pipeline
	roundsGraded      prometheus.Counter
	roundsAlready     prometheus.Counter
	selectionsGraded  prometheus.Counter
	ticketsScored     prometheus.Counter
	gradingLatency    prometheus.Histogram
	gradingErrors     prometheus.Counter
	leaderboardFolds  prometheus.Counter
	leaderboardErrors prometheus.Counter

	// Submission Metrics
	ticketsSubmitted prometheus.Counter
	submissionErrors prometheus.Counter

	// Store Metrics
	storeQueryLatency  prometheus.Histogram
	storeUpdateLatency prometheus.Histogram

	// Autograde Metrics
	autogradeQueueSize prometheus.Gauge
	autogradeRuns      prometheus.Counter
	autogradeErrors    prometheus.Counter

	// Operational Health Metrics
	totalRounds  prometheus.Gauge
	totalTickets prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fantabet",
		subsystem:        "grading",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - settlement pipeline throughput and quality
	m.roundsGraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_graded_total",
		Help:      "Total number of rounds settled by the grading pipeline",
	})

	m.roundsAlready = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_already_graded_total",
		Help:      "Total number of grading calls short-circuited on an already graded round",
	})

	m.selectionsGraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selections_graded_total",
		Help:      "Total number of selections evaluated against match results",
	})

	m.ticketsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tickets_scored_total",
		Help:      "Total number of ticket score rows written",
	})

	m.gradingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grading_latency_milliseconds",
		Help:      "Histogram of full round grading latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.gradingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grading_errors_total",
		Help:      "Total number of failed grading invocations",
	})

	m.leaderboardFolds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_folds_total",
		Help:      "Total number of ticket totals folded into leaderboard entries",
	})

	m.leaderboardErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_errors_total",
		Help:      "Total number of leaderboard update errors",
	})

	// Submission Metrics
	m.ticketsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tickets_submitted_total",
		Help:      "Total number of tickets submitted",
	})

	m.submissionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_errors_total",
		Help:      "Total number of rejected ticket submissions",
	})

	// Store Metrics
	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Store read operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_update_latency_milliseconds",
		Help:      "Store write operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Autograde Metrics
	m.autogradeQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "autograde_queue_size",
		Help:      "Current number of rounds waiting in the autograde queue",
	})

	m.autogradeRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "autograde_runs_total",
		Help:      "Total number of autograde discovery sweeps",
	})

	m.autogradeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "autograde_errors_total",
		Help:      "Total number of autograde sweep or grading errors",
	})

	// Operational Health Metrics
	m.totalRounds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_rounds",
		Help:      "Total number of rounds known to the service",
	})

	m.totalTickets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_tickets",
		Help:      "Total number of tickets known to the service",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRoundGraded increments the graded rounds counter.
func RecordRoundGraded() {
	globalManager.roundsGraded.Inc()
}

// RecordRoundAlreadyGraded increments the already-graded short-circuit counter.
func RecordRoundAlreadyGraded() {
	globalManager.roundsAlready.Inc()
}

// RecordSelectionsGraded adds to the graded selections counter.
func RecordSelectionsGraded(n int) {
	globalManager.selectionsGraded.Add(float64(n))
}

// RecordTicketScored increments the ticket scores counter.
func RecordTicketScored() {
	globalManager.ticketsScored.Inc()
}

// RecordGradingLatency records full-pipeline grading latency in milliseconds.
func RecordGradingLatency(latencyMs float64) {
	globalManager.gradingLatency.Observe(latencyMs)
}

// RecordGradingError increments the grading errors counter.
func RecordGradingError() {
	globalManager.gradingErrors.Inc()
}

// RecordLeaderboardFold increments the leaderboard folds counter.
func RecordLeaderboardFold() {
	globalManager.leaderboardFolds.Inc()
}

// RecordLeaderboardError increments the leaderboard errors counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// RecordTicketSubmitted increments the submitted tickets counter.
func RecordTicketSubmitted() {
	globalManager.ticketsSubmitted.Inc()
}

// RecordSubmissionError increments the rejected submissions counter.
func RecordSubmissionError() {
	globalManager.submissionErrors.Inc()
}

// RecordStoreQueryLatency records store read latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreUpdateLatency records store write latency in milliseconds.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateLatency.Observe(latencyMs)
}

// UpdateAutogradeQueueSize sets the current autograde queue size.
func UpdateAutogradeQueueSize(size int) {
	globalManager.autogradeQueueSize.Set(float64(size))
}

// RecordAutogradeRun increments the autograde sweep counter.
func RecordAutogradeRun() {
	globalManager.autogradeRuns.Inc()
}

// RecordAutogradeError increments the autograde errors counter.
func RecordAutogradeError() {
	globalManager.autogradeErrors.Inc()
}

// UpdateTotalRounds sets the total rounds gauge.
func UpdateTotalRounds(count int) {
	globalManager.totalRounds.Set(float64(count))
}

// UpdateTotalTickets sets the total tickets gauge.
func UpdateTotalTickets(count int) {
	globalManager.totalTickets.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause observation.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
