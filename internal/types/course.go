// Package types provides type definitions for structured data used throughout the course advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// CatalogEntry represents one course in a department's catalog
type CatalogEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// OfferingRecord represents one scheduled instance of a course.
// Instructor names are free text as recorded by the registrar ("Smith, John", "John Smith").
type OfferingRecord struct {
	CourseCode  string   `json:"courseCode"`
	Year        string   `json:"year,omitempty"`
	Semester    string   `json:"semester,omitempty"`
	Instructors []string `json:"instructors"`
	CourseGPA   Float    `json:"course_gpa"`
}

// Term returns "{year} {semester}" with surrounding whitespace removed.
func (o *OfferingRecord) Term() string {
	return strings.TrimSpace(o.Year + " " + o.Semester)
}
