// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-capture/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobDoc outputs a human-readable summary of a captured job doc.
func (p *Printer) PrintJobDoc(doc *types.JobDoc, score int) {
	if doc == nil {
		return
	}

	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", doc.Title))
	}
	if doc.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:   %s\n", doc.Company))
	}
	if doc.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", doc.Location))
	}
	if doc.Seniority != "" {
		sb.WriteString(fmt.Sprintf("Seniority: %s\n", doc.Seniority))
	}
	if doc.RemoteType != "" {
		sb.WriteString(fmt.Sprintf("Remote:    %s\n", doc.RemoteType))
	}
	if doc.RoleType != "" {
		sb.WriteString(fmt.Sprintf("Type:      %s\n", doc.RoleType))
	}
	if salary := formatSalary(doc.Salary); salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:    %s\n", salary))
	}
	if doc.YearsExperienceMin != nil {
		if doc.YearsExperienceMax != nil {
			sb.WriteString(fmt.Sprintf("Years:     %d-%d\n", *doc.YearsExperienceMin, *doc.YearsExperienceMax))
		} else {
			sb.WriteString(fmt.Sprintf("Years:     %d+\n", *doc.YearsExperienceMin))
		}
	}
	if doc.EasyApply {
		sb.WriteString("Easy apply: yes\n")
	}
	sb.WriteString(fmt.Sprintf("Score:     %d/100\n", score))

	if len(doc.RequiredSkills) > 0 {
		sb.WriteString("\nRequired skills:\n")
		writeSkillList(&sb, doc.RequiredSkills)
	}
	if len(doc.PreferredSkills) > 0 {
		sb.WriteString("\nPreferred skills:\n")
		writeSkillList(&sb, doc.PreferredSkills)
	}

	if doc.HasSummary() {
		sb.WriteString("\nSummary:\n")
		sb.WriteString(wrapText(*doc.Summary, boxWidth-6))
		sb.WriteString("\n")
	}

	p.printBox("Captured Job", strings.TrimRight(sb.String(), "\n"))
}

// PrintConfidence outputs the per-field confidence table.
func (p *Printer) PrintConfidence(confidence map[string]types.FieldConfidence) {
	if len(confidence) == 0 {
		return
	}

	var sb strings.Builder
	for _, field := range []string{
		"title", "company", "industry", "location", "salary", "seniority",
		"remote_type", "role_type", "years_experience",
		"required_skills", "preferred_skills", "easy_apply",
	} {
		fc, ok := confidence[field]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-18s %-8s (%s)\n", field, fc.Confidence, fc.Source))
	}

	p.printBox("Field Confidence", strings.TrimRight(sb.String(), "\n"))
}

func writeSkillList(sb *strings.Builder, skills []string) {
	count := len(skills)
	if count > maxItemsToShow {
		count = maxItemsToShow
	}
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}
}

func formatSalary(s types.Salary) string {
	if s.IsZero() {
		return ""
	}
	currency := s.Currency
	if currency == "" {
		currency = "?"
	}
	var amount string
	switch {
	case s.Min != nil && s.Max != nil:
		amount = fmt.Sprintf("%.0f-%.0f", *s.Min, *s.Max)
	case s.Min != nil:
		amount = fmt.Sprintf("%.0f+", *s.Min)
	case s.Max != nil:
		amount = fmt.Sprintf("up to %.0f", *s.Max)
	default:
		return s.Raw
	}
	if s.Period != "" {
		return fmt.Sprintf("%s %s per %s", currency, amount, s.Period)
	}
	return fmt.Sprintf("%s %s", currency, amount)
}

// wrapText wraps a string at word boundaries to the given width.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if lineLen > 0 && lineLen+1+len(word) > width {
			sb.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			sb.WriteString(" ")
			lineLen++
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
