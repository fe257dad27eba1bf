package recommend

import (
	"fmt"

	"github.com/jonathan/course-advisor/internal/matching"
)

// SkipReason classifies why an instructor or course was left out of a result.
type SkipReason string

// Skip reasons
const (
	SkipLookupFailed SkipReason = "lookup_failed"
	SkipPanic        SkipReason = "panic"
)

// SkipError records why an item was skipped. It never reaches the caller of the engine.
type SkipError struct {
	Reason SkipReason
	Cause  error
}

func (e *SkipError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skipped (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("skipped (%s)", e.Reason)
}

func (e *SkipError) Unwrap() error {
	return e.Cause
}

// Observer receives diagnostics from the engine. The engine itself never logs.
type Observer interface {
	InstructorResolved(courseCode, instructor string, tier matching.Tier)
	InstructorSkipped(courseCode, instructor string, skip *SkipError)
	CourseSkipped(courseCode string, skip *SkipError)
	CourseAssembled(courseCode string, professors int)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

// InstructorResolved implements Observer.
func (NopObserver) InstructorResolved(string, string, matching.Tier) {}

// InstructorSkipped implements Observer.
func (NopObserver) InstructorSkipped(string, string, *SkipError) {}

// CourseSkipped implements Observer.
func (NopObserver) CourseSkipped(string, *SkipError) {}

// CourseAssembled implements Observer.
func (NopObserver) CourseAssembled(string, int) {}
