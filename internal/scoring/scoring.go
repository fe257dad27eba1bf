// Package scoring computes how well a professor matches a student's stated preferences.
package scoring

import (
	"strings"

	"github.com/jonathan/course-advisor/internal/types"
)

// Score deltas per rule
const (
	extraCreditBonus   = 2.0
	clearGradingBonus  = 1.5
	toughGraderPenalty = -0.5
	goodFeedbackBonus  = 1.5
	caringBonus        = 2.0

	amazingLecturesBonus = 2.0
	lectureHeavyBonus    = 1.0
	groupProjectsBonus   = 1.5
	groupProjectsPenalty = -0.5

	testHeavyPenalty     = -3.0
	homeworkHeavyPenalty = -2.0
	attendancePenalty    = -1.5
	popQuizzesPenalty    = -2.5
)

const scoreDecimalPlaces = 2

// Tag keywords searched for in the lower-cased tag string
const (
	tagExtraCredit          = "extra credit"
	tagClearGrading         = "clear grading"
	tagToughGrader          = "tough grader"
	tagGoodFeedback         = "good feedback"
	tagAmazingLectures      = "amazing lectures"
	tagLectureHeavy         = "lecture heavy"
	tagGroupProjects        = "group projects"
	tagTestHeavy            = "test heavy"
	tagLotsOfHomework       = "lots of homework"
	tagSkipClass            = "skip class"
	tagParticipationMatters = "participation matters"
	tagPopQuizzes           = "pop quizzes"
)

var caringTags = []string{"caring", "respected", "inspirational", "accessible"}

// Adjustment is one rule that changed the score.
type Adjustment struct {
	Rule  string  `json:"rule"`
	Delta float64 `json:"delta"`
}

// Breakdown explains a match score.
type Breakdown struct {
	Base        float64      `json:"base"`
	Adjustments []Adjustment `json:"adjustments"`
	Total       float64      `json:"total"`
}

// Score returns the match score for prof under prefs, rounded to two decimals.
// An unresolved professor (nil) scores 0.
func Score(prof *types.ProfessorDirectoryEntry, prefs types.Preferences) float64 {
	return Explain(prof, prefs).Total
}

// Explain computes the score along with every rule that contributed to it.
//
// The score starts at the professor's rating (0 when absent) and stacks deltas
// in a fixed order: priorities, learning style, then tolerances. Tags are matched
// by substring containment, so "extra credit" matches "gives extra credit often".
func Explain(prof *types.ProfessorDirectoryEntry, prefs types.Preferences) Breakdown {
	if prof == nil {
		return Breakdown{Adjustments: []Adjustment{}}
	}

	b := Breakdown{Base: prof.Rating.Or(0), Adjustments: []Adjustment{}}
	tags := strings.ToLower(prof.TagString())
	has := func(keyword string) bool { return strings.Contains(tags, keyword) }
	apply := func(rule string, delta float64) {
		b.Adjustments = append(b.Adjustments, Adjustment{Rule: rule, Delta: delta})
	}

	// Priorities
	if prefs.ExtraCredit && has(tagExtraCredit) {
		apply("extraCredit", extraCreditBonus)
	}
	if prefs.ClearGrading {
		if has(tagClearGrading) {
			apply("clearGrading", clearGradingBonus)
		} else if has(tagToughGrader) {
			apply("clearGrading:toughGrader", toughGraderPenalty)
		}
	}
	if prefs.GoodFeedback && has(tagGoodFeedback) {
		apply("goodFeedback", goodFeedbackBonus)
	}
	if prefs.Caring && hasAny(tags, caringTags) {
		apply("caring", caringBonus)
	}

	// Learning style
	if prefs.LectureHeavy {
		if has(tagAmazingLectures) {
			apply("lectureHeavy:amazingLectures", amazingLecturesBonus)
		} else if has(tagLectureHeavy) {
			apply("lectureHeavy", lectureHeavyBonus)
		}
	}
	if has(tagGroupProjects) {
		if prefs.GroupProjects {
			apply("groupProjects", groupProjectsBonus)
		} else {
			apply("!groupProjects", groupProjectsPenalty)
		}
	}

	// Tolerances penalize what the student did not opt into
	if !prefs.TestHeavy && has(tagTestHeavy) {
		apply("!testHeavy", testHeavyPenalty)
	}
	if !prefs.HomeworkHeavy && has(tagLotsOfHomework) {
		apply("!homeworkHeavy", homeworkHeavyPenalty)
	}
	if !prefs.StrictAttendance && (has(tagSkipClass) || has(tagParticipationMatters)) {
		apply("!strictAttendance", attendancePenalty)
	}
	if !prefs.PopQuizzes && has(tagPopQuizzes) {
		apply("!popQuizzes", popQuizzesPenalty)
	}

	total := b.Base
	for _, adj := range b.Adjustments {
		total += adj.Delta
	}
	b.Total = types.Round(total, scoreDecimalPlaces)
	return b
}

func hasAny(tags string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(tags, keyword) {
			return true
		}
	}
	return false
}
