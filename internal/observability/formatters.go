// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// moreLine reports how many items were left out of a list.
func moreLine(sb *strings.Builder, total, shown int, noun string) {
	if total > shown {
		fmt.Fprintf(sb, "\n... and %d more %s", total-shown, noun)
	}
}

// PrintMessage outputs a transcript message, followed by its structured payload.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(msg types.Message) {
	fmt.Fprintf(p.out, "%s: %s\n", msg.Role, msg.Content)

	switch msg.Kind {
	case types.KindCareerResults:
		p.PrintCareers(msg.Payload.Careers)
	case types.KindSkillRoadmap:
		p.PrintCourses(msg.Payload.Courses)
	case types.KindJobListings:
		p.PrintJobs(msg.Payload.Jobs)
	case types.KindResumeAnalysis:
		p.PrintAnalysis(msg.Payload.Analysis)
	case types.KindFeatureMenu:
		p.PrintFeatures(msg.Payload.Features)
	}
}

// PrintCareers outputs the top career recommendations with match and demand.
func (p *Printer) PrintCareers(careers []types.CareerRecommendation) {
	if len(careers) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(careers), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := careers[i]
		fmt.Fprintf(&sb, "#%d  %s (%.0f%% match)\n", i+1, c.Title, c.MatchPercent)
		fmt.Fprintf(&sb, "    Salary: %s\n", c.SalaryRange)
		fmt.Fprintf(&sb, "    Demand: %s  Growth: %s\n", c.DemandLevel, c.GrowthOutlook)
		if len(c.Skills) > 0 {
			fmt.Fprintf(&sb, "    Skills: %s\n", truncate(strings.Join(c.Skills, ", "), 40))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(careers), count, "careers")

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCourses outputs the skill roadmap in order.
func (p *Printer) PrintCourses(courses []types.CourseRecommendation) {
	if len(courses) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(courses), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := courses[i]
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.Title)
		fmt.Fprintf(&sb, "   %s · %s · %s · %s\n", c.Provider, c.Level, c.Duration, c.Price)
	}
	moreLine(&sb, len(courses), count, "courses")

	p.printBox("SKILL ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs outputs job listings with company and location.
func (p *Printer) PrintJobs(jobs []types.JobListing) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		j := jobs[i]
		fmt.Fprintf(&sb, "• %s\n", j.Title)
		fmt.Fprintf(&sb, "  %s, %s\n", j.Company, j.Location)
		if j.SalaryRange != "" {
			fmt.Fprintf(&sb, "  %s\n", j.SalaryRange)
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(jobs), count, "jobs")

	p.printBox("JOB LISTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the résumé scores, strengths and improvements.
func (p *Printer) PrintAnalysis(analysis *types.ResumeAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:  %.0f/100\n", analysis.OverallScore)
	fmt.Fprintf(&sb, "ATS:      %.0f/100\n", analysis.ATSScore)
	sb.WriteString("\n")

	writeList(&sb, "Strengths:", analysis.Strengths, 3)
	writeList(&sb, "Improvements:", analysis.Improvements, 3)

	if missing := analysis.KeywordAnalysis.Missing; len(missing) > 0 {
		fmt.Fprintf(&sb, "Missing keywords: %s\n", strings.Join(missing, ", "))
	}
	if analysis.GeneratedDocumentRef != "" {
		sb.WriteString("Improved résumé: available\n")
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeatures outputs the welcome menu.
func (p *Printer) PrintFeatures(features []types.FeatureOption) {
	if len(features) == 0 {
		return
	}

	var sb strings.Builder
	for _, f := range features {
		fmt.Fprintf(&sb, "• %s\n", f.Title)
		fmt.Fprintf(&sb, "  %s\n", f.Description)
	}

	p.printBox("WHAT I CAN HELP WITH", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}
