// Package observability provides logging, engine diagnostics and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/course-advisor/internal/eligibility"
	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/scoring"
	"github.com/jonathan/course-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendations outputs one box per course with its top-ranked professors.
func (p *Printer) PrintRecommendations(department string, completed []string, recs []types.CourseRecommendation) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Department:        %s\n", department))
	sb.WriteString(fmt.Sprintf("Completed courses: %d\n", len(completed)))
	sb.WriteString(fmt.Sprintf("Eligible courses:  %d", len(recs)))
	p.printBox("RECOMMENDATIONS", sb.String())

	for _, course := range recs {
		p.printCourse(course)
	}
}

func (p *Printer) printCourse(course types.CourseRecommendation) {
	title := course.CourseCode
	if course.CourseName != "" {
		title += "  " + course.CourseName
	}

	if len(course.Professors) == 0 {
		p.printBox(title, "No recorded offerings")
		return
	}

	var sb strings.Builder
	count := min(len(course.Professors), maxItemsToShow)
	for i := 0; i < count; i++ {
		prof := course.Professors[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, prof.Name))
		sb.WriteString(fmt.Sprintf("    Match: %.2f  Rating: %.1f  %s\n", prof.MatchScore, prof.Rating, prof.Difficulty))
		if prof.Schedule != "" {
			sb.WriteString(fmt.Sprintf("    Last taught: %s\n", prof.Schedule))
		}
		if len(prof.Tags) > 0 {
			tags := strings.Join(prof.Tags, ", ")
			if len(tags) > 40 {
				tags = tags[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Tags: %s\n", tags))
		}
	}
	if len(course.Professors) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more professors\n", len(course.Professors)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEligible outputs the courses left after removing completed ones.
func (p *Printer) PrintEligible(department string, courses *eligibility.Courses) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d eligible courses in %s\n", courses.Len(), department))
	for _, c := range courses.Entries() {
		sb.WriteString(fmt.Sprintf("\n  • %-10s %s", c.Code, c.Name))
	}
	p.printBox("ELIGIBLE COURSES", sb.String())
}

// PrintResolution outputs how a raw instructor name resolved.
func (p *Printer) PrintResolution(raw string, res matching.Resolution) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input: %s\n", raw))
	sb.WriteString(fmt.Sprintf("Tier:  %s\n", res.Tier))
	if !res.Found() {
		sb.WriteString("No directory entry matched")
		p.printBox("INSTRUCTOR RESOLUTION", sb.String())
		return
	}

	prof := res.Professor
	sb.WriteString(fmt.Sprintf("Match: %s\n", prof.Name))
	sb.WriteString(fmt.Sprintf("Rating: %s  Difficulty: %s (%s)\n",
		formatFloat(prof.Rating), formatFloat(prof.Difficulty), types.DifficultyFor(prof.Difficulty)))
	if tags := prof.TagList(); len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s", strings.Join(tags, ", ")))
	}
	p.printBox("INSTRUCTOR RESOLUTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBreakdown outputs each rule that contributed to a match score.
func (p *Printer) PrintBreakdown(name string, b scoring.Breakdown) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Professor: %s\n\n", name))
	sb.WriteString(fmt.Sprintf("  %-30s %+7.2f\n", "base rating", b.Base))
	for _, adj := range b.Adjustments {
		sb.WriteString(fmt.Sprintf("  %-30s %+7.2f\n", adj.Rule, adj.Delta))
	}
	sb.WriteString(fmt.Sprintf("  %-30s %7.2f", "match score", b.Total))
	p.printBox("SCORE BREAKDOWN", sb.String())
}

func formatFloat(f types.Float) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", f.Value)
}
