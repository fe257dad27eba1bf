package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/types"
)

// GetCatalog returns the courses of department in catalog order
func (db *DB) GetCatalog(ctx context.Context, department string) ([]types.CatalogEntry, error) {
	key := departmentKey(department)

	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM departments WHERE code = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return nil, &types.AdapterError{Op: "get catalog", Cause: err}
	}
	if !exists {
		return nil, &types.NotFoundError{Kind: "department", Key: department}
	}

	rows, err := db.pool.Query(ctx,
		`SELECT code, name FROM courses WHERE department = $1 ORDER BY position, code`, key,
	)
	if err != nil {
		return nil, &types.AdapterError{Op: "get catalog", Cause: err}
	}
	defer rows.Close()

	catalog := make([]types.CatalogEntry, 0)
	for rows.Next() {
		entry, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.AdapterError{Op: "get catalog", Cause: err}
	}
	return catalog, nil
}

// GetOfferings returns every recorded offering of courseCode with its instructors in listed order
func (db *DB) GetOfferings(ctx context.Context, courseCode string) ([]types.OfferingRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT o.year, o.semester, o.course_gpa,
		        COALESCE(array_agg(i.name ORDER BY i.position) FILTER (WHERE i.name IS NOT NULL), '{}')
		 FROM offerings o
		 LEFT JOIN offering_instructors i ON i.offering_id = o.id
		 WHERE o.course_code = $1
		 GROUP BY o.id, o.position, o.year, o.semester, o.course_gpa
		 ORDER BY o.position`,
		courseCode,
	)
	if err != nil {
		return nil, &types.AdapterError{Op: "get offerings", Cause: err}
	}
	defer rows.Close()

	offerings := make([]types.OfferingRecord, 0)
	for rows.Next() {
		rec, err := scanOffering(rows, courseCode)
		if err != nil {
			return nil, err
		}
		offerings = append(offerings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.AdapterError{Op: "get offerings", Cause: err}
	}
	return offerings, nil
}

// FindProfessorByNamePattern looks a professor up by case-insensitive name.
// Ties are broken by byte order of the lower-cased name, then of the raw name.
func (db *DB) FindProfessorByNamePattern(ctx context.Context, pattern string, mode matching.MatchMode) (*types.ProfessorDirectoryEntry, error) {
	var where string
	var arg string
	switch mode {
	case matching.MatchExact:
		where = `lower(name) = lower($1)`
		arg = pattern
	case matching.MatchSubstring:
		where = `lower(name) LIKE '%' || lower($1) || '%' ESCAPE '\'`
		arg = escapeLike(pattern)
	default:
		return nil, fmt.Errorf("unsupported match mode %s", mode)
	}

	var p types.ProfessorDirectoryEntry
	var rating, difficulty *float64
	err := db.pool.QueryRow(ctx,
		`SELECT name, rating, tags, difficulty FROM professors
		 WHERE `+where+`
		 ORDER BY lower(name) COLLATE "C", name COLLATE "C"
		 LIMIT 1`,
		arg,
	).Scan(&p.Name, &rating, &p.Tags, &difficulty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &types.AdapterError{Op: "find professor", Cause: err}
	}
	p.Rating = floatFrom(rating)
	p.Difficulty = floatFrom(difficulty)
	return &p, nil
}

// escapeLike escapes LIKE wildcards so the pattern matches literally
// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (types.CatalogEntry, error) {
	var entry types.CatalogEntry
	if err := row.Scan(&entry.Code, &entry.Name); err != nil {
		return types.CatalogEntry{}, &types.AdapterError{Op: "scan course", Cause: err}
	}
	return entry, nil
}

func scanOffering(row rowScanner, courseCode string) (types.OfferingRecord, error) {
	rec := types.OfferingRecord{CourseCode: courseCode}
	var gpa *float64
	if err := row.Scan(&rec.Year, &rec.Semester, &gpa, &rec.Instructors); err != nil {
		return types.OfferingRecord{}, &types.AdapterError{Op: "scan offering", Cause: err}
	}
	rec.CourseGPA = floatFrom(gpa)
	return rec, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func floatFrom(v *float64) types.Float {
	if v == nil {
		return types.Float{}
	}
	return types.NewFloat(*v)
}

func departmentKey(department string) string {
	return strings.ToUpper(strings.TrimSpace(department))
}
