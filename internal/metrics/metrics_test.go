package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/recommendations", "200"))

	RecordAPIRequest("POST", "/api/recommendations", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/recommendations", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordResolutionAndSkip(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		metric prometheus.Collector
	}{
		{"exact tier", func() { RecordResolution("exact") }, InstructorResolutions.WithLabelValues("exact")},
		{"instructor skip", func() { RecordSkip("instructor", "panic") }, ItemsSkipped.WithLabelValues("instructor", "panic")},
		{"cache hit", func() { RecordCacheLookup(CacheHit) }, CacheLookups.WithLabelValues(CacheHit)},
		{"rate limited", func() { RecordRateLimited("/api/recommendations") }, RateLimitRejections.WithLabelValues("/api/recommendations")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(tt.metric)
			tt.record()
			assert.Equal(t, before+1, testutil.ToFloat64(tt.metric))
		})
	}
}

func TestRecordCourseAssembled(t *testing.T) {
	before := testutil.ToFloat64(CoursesAssembled)
	RecordCourseAssembled(3)
	assert.Equal(t, before+1, testutil.ToFloat64(CoursesAssembled))
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("offerings", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(BreakerState.WithLabelValues("offerings")))

	SetBreakerState("offerings", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(BreakerState.WithLabelValues("offerings")))
}

func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/health", 200, time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
