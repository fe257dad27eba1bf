// Package matching resolves free-text instructor names to professor directory entries.
package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/course-advisor/internal/types"
)

// MatchMode selects how the directory compares a name pattern.
type MatchMode int

// Match modes. Both are case-insensitive.
const (
	MatchExact MatchMode = iota
	MatchSubstring
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchSubstring:
		return "substring"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Directory looks up professors by name pattern.
//
// When several entries match, implementations return the one with the lowest
// case-folded name, breaking ties on the raw name, so that a fixed directory
// snapshot always resolves the same way. A nil entry with a nil error means no match.
type Directory interface {
	FindProfessorByNamePattern(ctx context.Context, pattern string, mode MatchMode) (*types.ProfessorDirectoryEntry, error)
}

// Tier identifies which strategy produced a match.
type Tier int

// Resolver tiers in the order they are attempted.
const (
	TierNone Tier = iota
	TierExact
	TierSwapped
	TierLastName
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierExact:
		return "exact"
	case TierSwapped:
		return "swapped"
	case TierLastName:
		return "last_name"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Resolution is the outcome of resolving one raw instructor name.
type Resolution struct {
	Professor *types.ProfessorDirectoryEntry
	Tier      Tier
}

// Found reports whether a directory entry was matched.
func (r Resolution) Found() bool {
	return r.Professor != nil
}

// Resolver maps raw instructor names to directory entries.
type Resolver struct {
	directory Directory
}

// NewResolver creates a resolver over the given directory.
func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve tries, in order, and stops at the first hit:
//  1. exact case-insensitive match of the raw name
//  2. for "Last, First" names, exact match of "First Last"
//  3. case-insensitive substring match of the derived last name
//
// An unmatched name is not an error; it resolves to TierNone.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Resolution, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Resolution{Tier: TierNone}, nil
	}

	// Tier 1: exact, on the name as written; surrounding spaces must match too
	prof, err := r.directory.FindProfessorByNamePattern(ctx, raw, MatchExact)
	if err != nil {
		return Resolution{}, fmt.Errorf("exact lookup of %q: %w", raw, err)
	}
	if prof != nil {
		return Resolution{Professor: prof, Tier: TierExact}, nil
	}

	// Tier 2: "Last, First" -> "First Last"
	if swapped, ok := SwapLastFirst(name); ok {
		prof, err = r.directory.FindProfessorByNamePattern(ctx, swapped, MatchExact)
		if err != nil {
			return Resolution{}, fmt.Errorf("swapped lookup of %q: %w", swapped, err)
		}
		if prof != nil {
			return Resolution{Professor: prof, Tier: TierSwapped}, nil
		}
	}

	// Tier 3: last-name substring
	if last := LastName(name); last != "" {
		prof, err = r.directory.FindProfessorByNamePattern(ctx, last, MatchSubstring)
		if err != nil {
			return Resolution{}, fmt.Errorf("last-name lookup of %q: %w", last, err)
		}
		if prof != nil {
			return Resolution{Professor: prof, Tier: TierLastName}, nil
		}
	}

	return Resolution{Tier: TierNone}, nil
}

// SwapLastFirst turns "Last, First" into "First Last".
// It reports false when the name has no comma or either side is empty.
func SwapLastFirst(name string) (string, bool) {
	last, first, found := strings.Cut(name, ",")
	if !found {
		return "", false
	}
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return "", false
	}
	return first + " " + last, true
}

// LastName derives the surname used for substring matching: the first token
// of a "Last, First" name, otherwise the final whitespace-delimited token.
func LastName(name string) string {
	tokens := strings.Fields(strings.ReplaceAll(name, ",", " "))
	if len(tokens) == 0 {
		return ""
	}
	if strings.Contains(name, ",") {
		return tokens[0]
	}
	return tokens[len(tokens)-1]
}
