package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the dedicated registry served on /api/metrics
var Registry = prometheus.NewRegistry()

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	factory = promauto.With(Registry)

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Metrics
	DBOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBOperationTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	ConflictChecksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_conflict_checks_total",
			Help: "Total number of scheduling conflict checks",
		},
		[]string{"subsystem", "outcome"}, // outcome: clear | conflict | invalid
	)

	MentoringRequestsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_mentoring_requests_created_total",
			Help: "Total number of mentoring requests created",
		},
		[]string{"status"},
	)

	MentoringRequestsStatusUpdates = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_mentoring_request_status_updates_total",
			Help: "Total number of mentoring request status transitions",
		},
		[]string{"from_status", "to_status"},
	)

	MentoringRequestsDeclines = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_mentoring_request_declines_total",
			Help: "Total number of declined mentoring requests",
		},
		[]string{"reason"},
	)

	BookingsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_tutoring_bookings_created_total",
			Help: "Total number of tutoring bookings created",
		},
		[]string{"status"},
	)

	// Expiry Sweep Metrics
	ExpirySweepsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_expiry_sweeps_total",
			Help: "Total number of expiry sweep runs",
		},
		[]string{"status"},
	)

	ExpiredRequestsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "campushub_expired_requests_total",
			Help: "Total number of requests transitioned to expired by the sweep",
		},
	)

	ExpirySweepDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campushub_expiry_sweep_duration_seconds",
			Help:    "Expiry sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
