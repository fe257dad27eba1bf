package observability

import (
	"go.uber.org/zap"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/metrics"
	"github.com/jonathan/course-advisor/internal/recommend"
)

// Skip scopes used in logs and metrics
const (
	scopeInstructor = "instructor"
	scopeCourse     = "course"
)

// LogObserver forwards engine diagnostics to zap and Prometheus.
type LogObserver struct {
	logger *zap.Logger
}

var _ recommend.Observer = (*LogObserver)(nil)

// NewLogObserver creates an observer writing to logger.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

// InstructorResolved implements recommend.Observer.
func (o *LogObserver) InstructorResolved(courseCode, instructor string, tier matching.Tier) {
	metrics.RecordResolution(tier.String())
	o.logger.Debug("instructor resolved",
		zap.String("course", courseCode),
		zap.String("instructor", instructor),
		zap.Stringer("tier", tier))
}

// InstructorSkipped implements recommend.Observer.
func (o *LogObserver) InstructorSkipped(courseCode, instructor string, skip *recommend.SkipError) {
	metrics.RecordSkip(scopeInstructor, string(skip.Reason))
	o.logger.Warn("instructor skipped",
		zap.String("course", courseCode),
		zap.String("instructor", instructor),
		zap.String("reason", string(skip.Reason)),
		zap.Error(skip.Cause))
}

// CourseSkipped implements recommend.Observer.
func (o *LogObserver) CourseSkipped(courseCode string, skip *recommend.SkipError) {
	metrics.RecordSkip(scopeCourse, string(skip.Reason))
	o.logger.Warn("course skipped",
		zap.String("course", courseCode),
		zap.String("reason", string(skip.Reason)),
		zap.Error(skip.Cause))
}

// CourseAssembled implements recommend.Observer.
func (o *LogObserver) CourseAssembled(courseCode string, professors int) {
	metrics.RecordCourseAssembled(professors)
	o.logger.Debug("course assembled",
		zap.String("course", courseCode),
		zap.Int("professors", professors))
}
