package types

import "strings"

// ProfessorDirectoryEntry represents instructor quality metadata from the professor directory.
type ProfessorDirectoryEntry struct {
	Name       string  `json:"name"`
	Rating     Float   `json:"rating"`
	Tags       *string `json:"tags,omitempty"` // Comma-separated free-text descriptors
	Difficulty Float   `json:"difficulty"`
}

// TagString returns the raw tag string, or "" when the professor has none.
func (p *ProfessorDirectoryEntry) TagString() string {
	if p == nil || p.Tags == nil {
		return ""
	}
	return *p.Tags
}

// TagList splits the tag string on commas, trimming each piece and dropping empty ones.
func (p *ProfessorDirectoryEntry) TagList() []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(p.TagString(), ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Difficulty is the coarse difficulty bucket shown to students.
type Difficulty string

// Difficulty buckets
const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
)

// Bucket thresholds on the directory's numeric difficulty.
const (
	easyDifficultyBelow = 2.5
	hardDifficultyAbove = 3.8
)

// DifficultyFor maps a numeric difficulty to its bucket. Absent values are Moderate.
func DifficultyFor(difficulty Float) Difficulty {
	if !difficulty.Valid {
		return DifficultyModerate
	}
	switch {
	case difficulty.Value < easyDifficultyBelow:
		return DifficultyEasy
	case difficulty.Value > hardDifficultyAbove:
		return DifficultyHard
	default:
		return DifficultyModerate
	}
}
