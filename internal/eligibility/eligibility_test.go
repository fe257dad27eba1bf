package eligibility

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/jonathan/course-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_RemovesCompleted(t *testing.T) {
	catalog := []types.CatalogEntry{
		{Code: "CE 201", Name: "Fluid Mechanics"},
		{Code: "CE 305", Name: "Engineering Graphics"},
		{Code: "CE 310", Name: "Structures"},
	}

	eligible := Filter(catalog, []string{"CE 305", "MATH 100"})

	assert.Equal(t, []string{"CE 201", "CE 310"}, eligible.Codes())
	entry, ok := eligible.Get("CE 310")
	require.True(t, ok)
	assert.Equal(t, "Structures", entry.Name)
	_, ok = eligible.Get("CE 305")
	assert.False(t, ok)
}

func TestFilter_ExactStringMatch(t *testing.T) {
	catalog := []types.CatalogEntry{
		{Code: "CS101", Name: "Intro"},
		{Code: "CS102", Name: "Data Structures"},
	}

	// Case and whitespace differences do not count as completed
	eligible := Filter(catalog, []string{"cs101", " CS102"})
	assert.Equal(t, []string{"CS101", "CS102"}, eligible.Codes())
}

func TestFilter_DuplicateCatalogCodes(t *testing.T) {
	catalog := []types.CatalogEntry{
		{Code: "CS101", Name: "Intro (old)"},
		{Code: "CS102", Name: "Data Structures"},
		{Code: "CS101", Name: "Intro (new)"},
	}

	eligible := Filter(catalog, nil)

	require.Equal(t, 2, eligible.Len())
	assert.Equal(t, []string{"CS101", "CS102"}, eligible.Codes())
	assert.Equal(t, []types.CatalogEntry{
		{Code: "CS101", Name: "Intro (new)"},
		{Code: "CS102", Name: "Data Structures"},
	}, eligible.Entries())
}

func TestFilter_EmptyInputs(t *testing.T) {
	empty := Filter(nil, []string{"CS101"})
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Entries())

	catalog := []types.CatalogEntry{{Code: "CS101", Name: "Intro"}}
	full := Filter(catalog, nil)
	assert.Equal(t, catalog, full.Entries())
}

func TestFilter_DuplicateCompleted(t *testing.T) {
	catalog := []types.CatalogEntry{{Code: "CS101", Name: "Intro"}, {Code: "CS102", Name: "DS"}}
	eligible := Filter(catalog, []string{"CS101", "CS101", "CS101"})
	assert.Equal(t, []string{"CS102"}, eligible.Codes())
}

// For random catalogs C and completed sets S, every result code is in C and not
// in S, and every code of C not in S appears exactly once.
func TestFilter_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		var catalog []types.CatalogEntry
		catalogSize, completedSize := rng.Intn(15), rng.Intn(8)
		for i := 0; i < catalogSize; i++ {
			code := fmt.Sprintf("C%d", rng.Intn(10))
			catalog = append(catalog, types.CatalogEntry{Code: code, Name: fmt.Sprintf("n%d", i)})
		}
		var completed []string
		for i := 0; i < completedSize; i++ {
			completed = append(completed, fmt.Sprintf("C%d", rng.Intn(12)))
		}

		eligible := Filter(catalog, completed)

		inCatalog := map[string]bool{}
		for _, e := range catalog {
			inCatalog[e.Code] = true
		}
		inCompleted := map[string]bool{}
		for _, c := range completed {
			inCompleted[c] = true
		}

		counts := map[string]int{}
		for _, code := range eligible.Codes() {
			counts[code]++
			assert.True(t, inCatalog[code], "code %s must come from the catalog", code)
			assert.False(t, inCompleted[code], "code %s must not be completed", code)
		}
		for code := range inCatalog {
			if !inCompleted[code] {
				assert.Equal(t, 1, counts[code], "code %s must appear exactly once", code)
			}
		}
	}
}
