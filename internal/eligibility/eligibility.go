// Package eligibility determines which catalog courses a student can still take.
package eligibility

import "github.com/jonathan/course-advisor/internal/types"

// Courses is an insertion-ordered set of eligible catalog entries keyed by course code.
type Courses struct {
	order  []string
	byCode map[string]types.CatalogEntry
}

// Filter returns every catalog entry whose code is not in completed.
//
// Codes are compared as raw strings: case and whitespace are significant.
// Iteration order follows the catalog. When the catalog lists a code more than
// once, the code keeps the position of its first occurrence and the entry of its last.
func Filter(catalog []types.CatalogEntry, completed []string) *Courses {
	done := make(map[string]bool, len(completed))
	for _, code := range completed {
		done[code] = true
	}

	eligible := &Courses{
		order:  make([]string, 0, len(catalog)),
		byCode: make(map[string]types.CatalogEntry, len(catalog)),
	}
	for _, entry := range catalog {
		if done[entry.Code] {
			continue
		}
		if _, seen := eligible.byCode[entry.Code]; !seen {
			eligible.order = append(eligible.order, entry.Code)
		}
		eligible.byCode[entry.Code] = entry
	}

	return eligible
}

// Len returns the number of eligible courses.
func (c *Courses) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Codes returns the eligible course codes in catalog order.
func (c *Courses) Codes() []string {
	if c == nil {
		return nil
	}
	codes := make([]string, len(c.order))
	copy(codes, c.order)
	return codes
}

// Get returns the catalog entry for code.
func (c *Courses) Get(code string) (types.CatalogEntry, bool) {
	if c == nil {
		return types.CatalogEntry{}, false
	}
	entry, ok := c.byCode[code]
	return entry, ok
}

// Entries returns the eligible catalog entries in catalog order.
func (c *Courses) Entries() []types.CatalogEntry {
	if c == nil {
		return nil
	}
	entries := make([]types.CatalogEntry, 0, len(c.order))
	for _, code := range c.order {
		entries = append(entries, c.byCode[code])
	}
	return entries
}
