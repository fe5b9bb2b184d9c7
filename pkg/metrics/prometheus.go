// Package metrics provides Prometheus metrics for the skillbench engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingestion pipeline
	observationsProcessed prometheus.Counter
	observationsDuplicate prometheus.Counter
	observationsDropped   prometheus.Counter

	// Queue health
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueErrors      prometheus.Counter

	// Worker pool
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Cohort store
	cohortBuckets       prometheus.Gauge
	cohortMembers       prometheus.Gauge
	cohortUpdateLatency prometheus.Histogram
	cohortRejections    prometheus.Counter

	// Engine operations
	comparisons       *prometheus.CounterVec
	assessments       prometheus.Counter
	assessmentLatency prometheus.Histogram
	skillsSkipped     prometheus.Counter
	trackedUsers      prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// Runtime health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillbench",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all Prometheus collectors on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.observationsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observations_processed_total",
		Help:      "Total number of skill observations folded into cohort aggregates",
	})

	m.observationsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observations_duplicate_total",
		Help:      "Total number of duplicate observations rejected by the idempotency cache",
	})

	m.observationsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observations_dropped_total",
		Help:      "Total number of observations dropped due to backpressure",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the observation queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum observation queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of observations enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of observations dequeued",
	})

	m.queueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_errors_total",
		Help:      "Total number of failed enqueue attempts",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of ingestion workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Histogram of per-observation processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})

	m.cohortBuckets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_buckets",
		Help:      "Number of (skill, experience level) cohort buckets tracked",
	})

	m.cohortMembers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_members_total",
		Help:      "Total number of anonymized members across all cohort buckets",
	})

	m.cohortUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_update_latency_milliseconds",
		Help:      "Cohort aggregate update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cohortRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_rejections_total",
		Help:      "Total number of cohort reads rejected by the minimum group size gate",
	})

	m.comparisons = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "comparisons_total",
			Help:      "Total number of comparisons performed, labeled by kind",
		},
		[]string{"kind"},
	)

	m.assessments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_total",
		Help:      "Total number of market readiness assessments generated",
	})

	m.assessmentLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_latency_milliseconds",
		Help:      "End-to-end assessment latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.skillsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "skills_skipped_total",
		Help:      "Total number of skills skipped because no benchmark or cohort was available",
	})

	m.trackedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_users",
		Help:      "Number of users with a skill snapshot in the progress store",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
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

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordObservationProcessed increments the processed observations counter.
func RecordObservationProcessed() {
	globalManager.observationsProcessed.Inc()
}

// RecordObservationDuplicate increments the duplicate observations counter.
func RecordObservationDuplicate() {
	globalManager.observationsDuplicate.Inc()
}

// RecordObservationDropped increments the dropped observations counter.
func RecordObservationDropped() {
	globalManager.observationsDropped.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueError increments the failed enqueue counter.
func RecordQueueError() {
	globalManager.queueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-observation processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateCohortBuckets sets the number of cohort buckets tracked.
func UpdateCohortBuckets(count int) {
	globalManager.cohortBuckets.Set(float64(count))
}

// UpdateCohortMembers sets the total anonymized member count.
func UpdateCohortMembers(count int) {
	globalManager.cohortMembers.Set(float64(count))
}

// RecordCohortUpdateLatency records cohort aggregate update latency.
func RecordCohortUpdateLatency(latencyMs float64) {
	globalManager.cohortUpdateLatency.Observe(latencyMs)
}

// RecordCohortRejection increments the minimum-group-size rejection counter.
func RecordCohortRejection() {
	globalManager.cohortRejections.Inc()
}

// RecordComparison increments the comparison counter for a kind
// ("industry" or "peer").
func RecordComparison(kind string) {
	globalManager.comparisons.WithLabelValues(kind).Inc()
}

// RecordAssessment increments the assessments counter.
func RecordAssessment() {
	globalManager.assessments.Inc()
}

// RecordAssessmentLatency records end-to-end assessment latency.
func RecordAssessmentLatency(latencyMs float64) {
	globalManager.assessmentLatency.Observe(latencyMs)
}

// RecordSkillSkipped increments the skipped skills counter.
func RecordSkillSkipped() {
	globalManager.skillsSkipped.Inc()
}

// UpdateTrackedUsers sets the number of users with a skill snapshot.
func UpdateTrackedUsers(count int) {
	globalManager.trackedUsers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by the engine.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
