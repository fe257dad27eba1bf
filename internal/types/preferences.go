package types

import (
	"encoding/json"
	"strings"
)

// Preferences holds the student's boolean preference flags.
// The set of keys is fixed; absent keys are false.
type Preferences struct {
	// Priorities
	ExtraCredit  bool `json:"extraCredit"`
	ClearGrading bool `json:"clearGrading"`
	GoodFeedback bool `json:"goodFeedback"`
	Caring       bool `json:"caring"`

	// Learning style
	LectureHeavy  bool `json:"lectureHeavy"`
	GroupProjects bool `json:"groupProjects"`

	// Tolerances: true means the student is fine with it
	TestHeavy        bool `json:"testHeavy"`
	HomeworkHeavy    bool `json:"homeworkHeavy"`
	StrictAttendance bool `json:"strictAttendance"`
	PopQuizzes       bool `json:"popQuizzes"`
}

// PreferenceKeys lists every recognized preference key.
var PreferenceKeys = []string{
	"extraCredit",
	"clearGrading",
	"goodFeedback",
	"caring",
	"lectureHeavy",
	"groupProjects",
	"testHeavy",
	"homeworkHeavy",
	"strictAttendance",
	"popQuizzes",
}

// PreferencesFromMap builds Preferences from a key/value map.
// Unknown keys are ignored and any value that is not the boolean true counts as false.
func PreferencesFromMap(m map[string]any) Preferences {
	flag := func(key string) bool {
		v, ok := m[key].(bool)
		return ok && v
	}
	return Preferences{
		ExtraCredit:      flag("extraCredit"),
		ClearGrading:     flag("clearGrading"),
		GoodFeedback:     flag("goodFeedback"),
		Caring:           flag("caring"),
		LectureHeavy:     flag("lectureHeavy"),
		GroupProjects:    flag("groupProjects"),
		TestHeavy:        flag("testHeavy"),
		HomeworkHeavy:    flag("homeworkHeavy"),
		StrictAttendance: flag("strictAttendance"),
		PopQuizzes:       flag("popQuizzes"),
	}
}

// ParsePreferences decodes a JSON object of preference flags.
// Empty input is the empty preference set. Anything that is not a JSON object
// returns a MalformedInputError alongside the empty default.
func ParsePreferences(raw []byte) (Preferences, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Preferences{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return Preferences{}, &MalformedInputError{Field: "preferences", Cause: err}
	}
	return PreferencesFromMap(m), nil
}

// ParseCompletedCourses decodes a JSON array of course codes.
// Non-string elements are dropped. Anything that is not a JSON array returns a
// MalformedInputError alongside an empty list.
func ParseCompletedCourses(raw []byte) ([]string, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []string{}, nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}, &MalformedInputError{Field: "completed_courses", Cause: err}
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		if code, ok := item.(string); ok {
			codes = append(codes, code)
		}
	}
	return codes, nil
}
