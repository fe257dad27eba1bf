package db

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/course-advisor/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// SeedData is the content written by Seed. It mirrors the dataset file layout.
type SeedData struct {
	Departments map[string][]types.CatalogEntry
	Offerings   map[string][]types.OfferingRecord
	Professors  []types.ProfessorDirectoryEntry
}

// SeedStats reports how many rows Seed wrote
type SeedStats struct {
	Departments int
	Courses     int
	Offerings   int
	Instructors int
	Professors  int
}

// Migrate creates any missing tables and indexes
func (db *DB) Migrate(ctx context.Context) error {
	// No arguments, so pgx sends the multi-statement script over the simple protocol
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Seed replaces all catalog, offering and directory rows with data in one transaction
func (db *DB) Seed(ctx context.Context, data SeedData) (*SeedStats, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"offering_instructors", "offerings", "courses", "departments", "professors"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stats := &SeedStats{}
	if err := seedCatalogs(ctx, tx, data.Departments, stats); err != nil {
		return nil, err
	}
	if err := seedOfferings(ctx, tx, data.Offerings, stats); err != nil {
		return nil, err
	}
	if err := seedProfessors(ctx, tx, data.Professors, stats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit seed: %w", err)
	}
	return stats, nil
}

func seedCatalogs(ctx context.Context, tx pgx.Tx, departments map[string][]types.CatalogEntry, stats *SeedStats) error {
	for _, dept := range sortedKeys(departments) {
		key := departmentKey(dept)
		if _, err := tx.Exec(ctx,
			`INSERT INTO departments (code) VALUES ($1) ON CONFLICT (code) DO NOTHING`, key,
		); err != nil {
			return fmt.Errorf("failed to insert department %s: %w", key, err)
		}
		stats.Departments++

		for i, course := range departments[dept] {
			// A repeated code keeps its first position and takes the later name
			if _, err := tx.Exec(ctx,
				`INSERT INTO courses (department, code, name, position)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (department, code) DO UPDATE SET name = EXCLUDED.name`,
				key, course.Code, course.Name, i,
			); err != nil {
				return fmt.Errorf("failed to insert course %s: %w", course.Code, err)
			}
			stats.Courses++
		}
	}
	return nil
}

func seedOfferings(ctx context.Context, tx pgx.Tx, offerings map[string][]types.OfferingRecord, stats *SeedStats) error {
	for _, code := range sortedKeys(offerings) {
		for i, offering := range offerings[code] {
			id := uuid.New()
			if _, err := tx.Exec(ctx,
				`INSERT INTO offerings (id, course_code, position, year, semester, course_gpa)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				id, code, i, offering.Year, offering.Semester, offering.CourseGPA.Ptr(),
			); err != nil {
				return fmt.Errorf("failed to insert offering of %s: %w", code, err)
			}
			stats.Offerings++

			for j, name := range offering.Instructors {
				if _, err := tx.Exec(ctx,
					`INSERT INTO offering_instructors (offering_id, position, name) VALUES ($1, $2, $3)`,
					id, j, name,
				); err != nil {
					return fmt.Errorf("failed to insert instructor %q: %w", name, err)
				}
				stats.Instructors++
			}
		}
	}
	return nil
}

func seedProfessors(ctx context.Context, tx pgx.Tx, professors []types.ProfessorDirectoryEntry, stats *SeedStats) error {
	for _, p := range professors {
		if _, err := tx.Exec(ctx,
			`INSERT INTO professors (id, name, rating, tags, difficulty) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), p.Name, p.Rating.Ptr(), p.Tags, p.Difficulty.Ptr(),
		); err != nil {
			return fmt.Errorf("failed to insert professor %q: %w", p.Name, err)
		}
		stats.Professors++
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
