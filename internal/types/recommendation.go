package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// UnknownAttribute is reported for attributes the directory does not track yet.
const UnknownAttribute = "Unknown"

// ProfessorRecommendation represents one instructor recommended for a course
type ProfessorRecommendation struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Rating         float64    `json:"rating"`
	ReviewCount    int        `json:"reviewCount"`
	Difficulty     Difficulty `json:"difficulty"`
	MatchScore     float64    `json:"matchScore"`
	Schedule       string     `json:"schedule"`
	ClassSize      string     `json:"classSize"`
	AssessmentType string     `json:"assessmentType"`
	Attendance     string     `json:"attendance"`
	Tags           []string   `json:"tags"`
}

// CourseRecommendation groups the ranked instructors for one eligible course
type CourseRecommendation struct {
	CourseCode string                    `json:"courseCode"`
	CourseName string                    `json:"courseName"`
	Professors []ProfessorRecommendation `json:"professors"`
}

// RecommendationRequest is the JSON body accepted by the recommendations endpoint.
// CompletedCourses and Preferences are kept raw so malformed values can degrade
// to defaults without rejecting the request.
type RecommendationRequest struct {
	Department       string          `json:"department" validate:"required"`
	CompletedCourses json.RawMessage `json:"completed_courses,omitempty"`
	Preferences      json.RawMessage `json:"preferences,omitempty"`
}

// Validate validates the RecommendationRequest using the validator.
func (r *RecommendationRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Field: "department", Message: "department is required"}
	}
	return nil
}

// RecommendationResponse is the envelope returned by the recommendations endpoint.
type RecommendationResponse struct {
	Success          bool                   `json:"success"`
	RequestID        string                 `json:"request_id"`
	Department       string                 `json:"department"`
	CompletedCourses []string               `json:"completed_courses"`
	Recommendations  []CourseRecommendation `json:"recommendations"`
	TotalEligible    int                    `json:"total_eligible"`
}
