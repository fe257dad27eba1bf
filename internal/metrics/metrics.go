// Package metrics exposes Prometheus instrumentation for the advisor.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Engine Metrics
	InstructorResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_instructor_resolutions_total",
			Help: "Instructor name resolutions by matching tier",
		},
		[]string{"tier"}, // "none", "exact", "swapped", "last_name"
	)

	ItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_items_skipped_total",
			Help: "Instructors or courses left out of a recommendation",
		},
		[]string{"scope", "reason"},
	)

	CoursesAssembled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_courses_assembled_total",
			Help: "Total number of course recommendations assembled",
		},
	)

	ProfessorsPerCourse = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_professors_per_course",
			Help:    "Number of ranked professors per assembled course",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	// Data source Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_offering_cache_lookups_total",
			Help: "Offering cache lookups by outcome",
		},
		[]string{"result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "advisor_circuit_breaker_state",
			Help: "Circuit breaker state per data source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordResolution counts one instructor resolution
func RecordResolution(tier string) {
	InstructorResolutions.WithLabelValues(tier).Inc()
}

// RecordSkip counts one skipped instructor or course
func RecordSkip(scope, reason string) {
	ItemsSkipped.WithLabelValues(scope, reason).Inc()
}

// RecordCourseAssembled records a finished course and its professor count
func RecordCourseAssembled(professors int) {
	CoursesAssembled.Inc()
	ProfessorsPerCourse.Observe(float64(professors))
}

// RecordCacheLookup counts one offering cache lookup
func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

// SetBreakerState publishes the numeric state of a data source breaker
func SetBreakerState(source string, state int) {
	BreakerState.WithLabelValues(source).Set(float64(state))
}

// RecordRateLimited counts one rejected request
func RecordRateLimited(endpoint string) {
	RateLimitRejections.WithLabelValues(endpoint).Inc()
}
