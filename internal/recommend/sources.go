// Package recommend assembles ranked instructor recommendations for the courses a student can still take.
package recommend

import (
	"context"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/types"
)

// CatalogSource returns a department's course catalog.
// An unknown department is reported as *types.NotFoundError.
type CatalogSource interface {
	GetCatalog(ctx context.Context, department string) ([]types.CatalogEntry, error)
}

// OfferingSource returns the recorded offerings of a course.
// A course with no offerings yields an empty slice, not an error.
type OfferingSource interface {
	GetOfferings(ctx context.Context, courseCode string) ([]types.OfferingRecord, error)
}

// Sources bundles every collaborator the engine reads from.
type Sources interface {
	CatalogSource
	OfferingSource
	matching.Directory
}
