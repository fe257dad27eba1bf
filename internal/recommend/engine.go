package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/course-advisor/internal/eligibility"
	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/scoring"
	"github.com/jonathan/course-advisor/internal/types"
)

// fallbackRatingDecimals is the precision of a course GPA used in place of a professor rating.
const fallbackRatingDecimals = 1

// Engine turns a catalog, a completed-course list and preference flags into
// ranked instructor recommendations. It holds no per-request state and is safe
// for concurrent use as long as its sources are.
type Engine struct {
	catalog   CatalogSource
	offerings OfferingSource
	resolver  *matching.Resolver
	observer  Observer
}

// NewEngine creates an engine reading from sources. A nil observer discards diagnostics.
func NewEngine(sources Sources, observer Observer) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{
		catalog:   sources,
		offerings: sources,
		resolver:  matching.NewResolver(sources),
		observer:  observer,
	}
}

// Resolver returns the resolver the engine uses for instructor names.
func (e *Engine) Resolver() *matching.Resolver {
	return e.resolver
}

// Eligible fetches the department catalog and filters out completed courses.
func (e *Engine) Eligible(ctx context.Context, department string, completed []string) (*eligibility.Courses, error) {
	if strings.TrimSpace(department) == "" {
		return nil, &types.ValidationError{Field: "department", Message: "department is required"}
	}

	catalog, err := e.catalog.GetCatalog(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog for %s: %w", department, err)
	}

	return eligibility.Filter(catalog, completed), nil
}

// GetRecommendations returns ranked instructor recommendations for every course
// of department the student has not completed.
//
// Request-level failures (missing department, unknown department, a source that
// is unavailable as a whole) are returned. Failures confined to one course or one
// instructor only remove that item from the result.
func (e *Engine) GetRecommendations(ctx context.Context, department string, completed []string, prefs types.Preferences) ([]types.CourseRecommendation, error) {
	eligible, err := e.Eligible(ctx, department, completed)
	if err != nil {
		return nil, err
	}
	return e.Assemble(ctx, eligible, prefs)
}

// Assemble builds one CourseRecommendation per eligible course, in eligibility order.
func (e *Engine) Assemble(ctx context.Context, eligible *eligibility.Courses, prefs types.Preferences) ([]types.CourseRecommendation, error) {
	result := make([]types.CourseRecommendation, 0, eligible.Len())

	for _, course := range eligible.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := e.assembleCourse(ctx, course, prefs)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) && !errors.Is(err, types.ErrUnavailable) {
				e.observer.CourseSkipped(course.Code, skip)
				continue
			}
			return nil, err
		}

		e.observer.CourseAssembled(course.Code, len(rec.Professors))
		result = append(result, rec)
	}

	return result, nil
}

// assembleCourse collects the unique instructors across all offerings of one
// course and ranks them. The first offering that lists a raw name supplies its
// schedule and fallback rating; later repeats of the identical string are ignored.
func (e *Engine) assembleCourse(ctx context.Context, course types.CatalogEntry, prefs types.Preferences) (rec types.CourseRecommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SkipError{Reason: SkipPanic, Cause: fmt.Errorf("assembling %s: %v", course.Code, r)}
		}
	}()

	offerings, err := e.offerings.GetOfferings(ctx, course.Code)
	if err != nil {
		return rec, &SkipError{Reason: SkipLookupFailed, Cause: fmt.Errorf("failed to get offerings for %s: %w", course.Code, err)}
	}

	professors := make([]types.ProfessorRecommendation, 0)
	seen := make(map[string]bool)
	for i := range offerings {
		offering := &offerings[i]
		for _, name := range offering.Instructors {
			if seen[name] {
				continue
			}
			seen[name] = true

			prof, skip := e.buildProfessor(ctx, course.Code, name, offering, prefs, len(professors)+1)
			if skip != nil {
				if errors.Is(skip, types.ErrUnavailable) {
					return rec, skip
				}
				e.observer.InstructorSkipped(course.Code, name, skip)
				continue
			}
			professors = append(professors, prof)
		}
	}

	// Stable: equal scores keep encounter order
	sort.SliceStable(professors, func(i, j int) bool {
		return professors[i].MatchScore > professors[j].MatchScore
	})

	return types.CourseRecommendation{
		CourseCode: course.Code,
		CourseName: course.Name,
		Professors: professors,
	}, nil
}

// buildProfessor resolves and scores one instructor. seq becomes the row ID.
func (e *Engine) buildProfessor(ctx context.Context, courseCode, name string, offering *types.OfferingRecord, prefs types.Preferences, seq int) (rec types.ProfessorRecommendation, skip *SkipError) {
	defer func() {
		if r := recover(); r != nil {
			skip = &SkipError{Reason: SkipPanic, Cause: fmt.Errorf("building %q: %v", name, r)}
		}
	}()

	res, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return rec, &SkipError{Reason: SkipLookupFailed, Cause: err}
	}
	e.observer.InstructorResolved(courseCode, name, res.Tier)

	prof := res.Professor
	rating := types.Round(offering.CourseGPA.Or(0), fallbackRatingDecimals)
	difficulty := types.DifficultyModerate
	tags := make([]string, 0)
	if prof != nil {
		if prof.Rating.Valid {
			rating = prof.Rating.Value
		}
		difficulty = types.DifficultyFor(prof.Difficulty)
		tags = prof.TagList()
	}

	return types.ProfessorRecommendation{
		ID:             strconv.Itoa(seq),
		Name:           name,
		Rating:         rating,
		ReviewCount:    0,
		Difficulty:     difficulty,
		MatchScore:     scoring.Score(prof, prefs),
		Schedule:       offering.Term(),
		ClassSize:      types.UnknownAttribute,
		AssessmentType: types.UnknownAttribute,
		Attendance:     types.UnknownAttribute,
		Tags:           tags,
	}, nil
}
