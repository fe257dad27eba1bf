package types

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates a collaborator is unavailable as a whole (store down, circuit open).
// Unlike AdapterError it fails the entire request.
var ErrUnavailable = errors.New("data source unavailable")

// ValidationError represents a missing or invalid request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError represents an unknown department or course
type NotFoundError struct {
	Kind string // "department", "course"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// AdapterError represents a transient failure of a collaborator lookup
type AdapterError struct {
	Op    string
	Cause error
}

func (e *AdapterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// MalformedInputError represents an unparseable preferences or completed-courses payload.
// Callers recover from it by substituting the empty default.
type MalformedInputError struct {
	Field string
	Cause error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("malformed %s", e.Field)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}
