// Package dataset serves catalogs, offerings and the professor directory from a
// single JSON document held in memory.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/schemas"
	"github.com/jonathan/course-advisor/internal/types"
)

// Document is the on-disk dataset format.
type Document struct {
	Departments map[string][]types.CatalogEntry   `json:"departments"`
	Offerings   map[string][]types.OfferingRecord `json:"offerings,omitempty"`
	Professors  []types.ProfessorDirectoryEntry   `json:"professors,omitempty"`
}

// Store is a read-only, concurrency-safe view over a Document.
type Store struct {
	departments map[string][]types.CatalogEntry
	offerings   map[string][]types.OfferingRecord
	// professors sorted by case-folded name, then raw name
	professors []types.ProfessorDirectoryEntry
	folded     []string
}

// Load reads, validates and indexes the dataset at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return store, nil
}

// Parse validates data against the dataset schema and indexes it.
func Parse(data []byte) (*Store, error) {
	if err := schemas.ValidateDataset(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return New(doc), nil
}

// New indexes doc. Department keys are matched case-insensitively.
func New(doc Document) *Store {
	s := &Store{
		departments: make(map[string][]types.CatalogEntry, len(doc.Departments)),
		offerings:   make(map[string][]types.OfferingRecord, len(doc.Offerings)),
		professors:  append([]types.ProfessorDirectoryEntry(nil), doc.Professors...),
	}

	for dept, catalog := range doc.Departments {
		s.departments[departmentKey(dept)] = catalog
	}

	for code, records := range doc.Offerings {
		filled := make([]types.OfferingRecord, len(records))
		for i, rec := range records {
			if rec.CourseCode == "" {
				rec.CourseCode = code
			}
			filled[i] = rec
		}
		s.offerings[code] = filled
	}

	sort.SliceStable(s.professors, func(i, j int) bool {
		a, b := strings.ToLower(s.professors[i].Name), strings.ToLower(s.professors[j].Name)
		if a != b {
			return a < b
		}
		return s.professors[i].Name < s.professors[j].Name
	})
	s.folded = make([]string, len(s.professors))
	for i, p := range s.professors {
		s.folded[i] = strings.ToLower(p.Name)
	}

	return s
}

// Departments returns the department codes in sorted order.
func (s *Store) Departments() []string {
	depts := make([]string, 0, len(s.departments))
	for dept := range s.departments {
		depts = append(depts, dept)
	}
	sort.Strings(depts)
	return depts
}

// GetCatalog returns the catalog of department.
func (s *Store) GetCatalog(_ context.Context, department string) ([]types.CatalogEntry, error) {
	catalog, ok := s.departments[departmentKey(department)]
	if !ok {
		return nil, &types.NotFoundError{Kind: "department", Key: department}
	}
	return append([]types.CatalogEntry(nil), catalog...), nil
}

// GetOfferings returns the recorded offerings of courseCode; unknown courses have none.
func (s *Store) GetOfferings(_ context.Context, courseCode string) ([]types.OfferingRecord, error) {
	return append([]types.OfferingRecord(nil), s.offerings[courseCode]...), nil
}

// FindProfessorByNamePattern returns the first professor, in directory order,
// whose case-folded name equals or contains the case-folded pattern.
func (s *Store) FindProfessorByNamePattern(_ context.Context, pattern string, mode matching.MatchMode) (*types.ProfessorDirectoryEntry, error) {
	needle := strings.ToLower(pattern)
	for i, name := range s.folded {
		var hit bool
		switch mode {
		case matching.MatchExact:
			hit = name == needle
		case matching.MatchSubstring:
			hit = strings.Contains(name, needle)
		default:
			return nil, fmt.Errorf("unsupported match mode %s", mode)
		}
		if hit {
			entry := s.professors[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func departmentKey(department string) string {
	return strings.ToUpper(strings.TrimSpace(department))
}
