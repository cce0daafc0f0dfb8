// Package segment splits cleaned posting text into canonical sections using
// board-specific heuristics with a generic fallback. Segmentation is a pure
// transform: it degrades gracefully and never discards text or errors.
package segment

import (
	"strings"

	"github.com/jonathan/job-capture/internal/capture"
	"github.com/jonathan/job-capture/internal/types"
)

// headingPatterns maps lowercase heading phrases to the section they open.
// Checked in order so more specific phrases win over generic ones.
var headingPatterns = []struct {
	phrases []string
	section types.Section
}{
	{[]string{"nice to have", "preferred qualifications", "bonus points", "it's a plus", "preferred skills"}, types.SectionPreferred},
	{[]string{"requirements", "qualifications", "what you bring", "what we're looking for", "who you are", "must have", "skills & experience", "skills and experience"}, types.SectionRequirements},
	{[]string{"responsibilities", "what you'll do", "what you will do", "the role", "your mission", "day to day", "in this role"}, types.SectionResponsibilities},
	{[]string{"benefits", "perks", "what we offer", "compensation", "why join us", "what's in it for you"}, types.SectionBenefits},
	{[]string{"about us", "about the company", "about the team", "who we are", "our company", "our story"}, types.SectionAboutCompany},
	{[]string{"about the role", "about this role", "overview", "job description", "the opportunity", "position summary"}, types.SectionSummary},
}

// maxHeadingLen bounds how long a line can be and still count as a heading.
const maxHeadingLen = 80

// Segment splits prepared capture text into canonical sections. Text before
// the first recognized heading becomes the summary; text that matches no
// known structure lands in "other" so nothing is ever lost.
func Segment(p *capture.Prepared) *types.SegmentedDocument {
	text := StrategyFor(p.Board).Trim(p.CleanText)

	doc := &types.SegmentedDocument{
		Sections: make(map[types.Section]string),
		Board:    string(p.Board),
	}

	lines := strings.Split(text, "\n")
	current := types.Section("")
	spans := make(map[types.Section][]string)
	var preamble []string

	for _, line := range lines {
		if section, ok := matchHeading(line); ok {
			current = section
			continue
		}
		if current == "" {
			preamble = append(preamble, line)
			continue
		}
		spans[current] = append(spans[current], line)
	}

	if len(spans) == 0 {
		// No recognized structure: whole text is "other".
		doc.Sections[types.SectionOther] = strings.TrimSpace(text)
		return doc
	}

	if head := strings.TrimSpace(strings.Join(preamble, "\n")); head != "" {
		if existing := doc.Sections[types.SectionSummary]; existing == "" {
			doc.Sections[types.SectionSummary] = head
		}
	}
	for section, body := range spans {
		span := strings.TrimSpace(strings.Join(body, "\n"))
		if span == "" {
			continue
		}
		if existing := doc.Sections[section]; existing != "" {
			doc.Sections[section] = existing + "\n\n" + span
		} else {
			doc.Sections[section] = span
		}
	}

	return doc
}

// matchHeading reports whether a line is a section heading and which section
// it opens. Headings are short lines that start with (or equal) a known
// phrase, optionally with markdown markers or a trailing colon.
func matchHeading(line string) (types.Section, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "#*- ")
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" || len(trimmed) > maxHeadingLen {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, group := range headingPatterns {
		for _, phrase := range group.phrases {
			if lower == phrase || strings.HasPrefix(lower, phrase+" ") || strings.HasPrefix(lower, phrase+":") {
				return group.section, true
			}
		}
	}
	return "", false
}
