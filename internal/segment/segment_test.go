package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-capture/internal/capture"
	"github.com/jonathan/job-capture/internal/types"
)

func prepared(board capture.Board, text string) *capture.Prepared {
	return &capture.Prepared{CleanText: text, Board: board}
}

func TestSegment_CanonicalSections(t *testing.T) {
	text := `Acme is building developer tools for everyone.

Responsibilities
- Operate Kubernetes clusters
- Build deployment tooling

Requirements:
- 5+ years of experience
- Strong Go skills

Nice to have
- Kafka experience

Benefits
Competitive salary and equity.

About us
Acme was founded in 2015.`

	doc := Segment(prepared(capture.BoardUnknown, text))

	assert.Equal(t, "Acme is building developer tools for everyone.", doc.Text(types.SectionSummary))
	assert.Contains(t, doc.Text(types.SectionResponsibilities), "Operate Kubernetes clusters")
	assert.Contains(t, doc.Text(types.SectionRequirements), "Strong Go skills")
	assert.Contains(t, doc.Text(types.SectionPreferred), "Kafka experience")
	assert.Contains(t, doc.Text(types.SectionBenefits), "Competitive salary")
	assert.Contains(t, doc.Text(types.SectionAboutCompany), "founded in 2015")
}

func TestSegment_NoStructureFallsBackToOther(t *testing.T) {
	text := "We want an engineer who can do everything and loves shipping."

	doc := Segment(prepared(capture.BoardUnknown, text))

	assert.Equal(t, text, doc.Text(types.SectionOther))
	assert.Empty(t, doc.Text(types.SectionSummary))
}

func TestSegment_MarkdownAndColonHeadings(t *testing.T) {
	text := `Intro paragraph.

## What you'll do
Ship code.

**Qualifications:**
Know Go.`

	doc := Segment(prepared(capture.BoardUnknown, text))

	assert.Contains(t, doc.Text(types.SectionResponsibilities), "Ship code.")
	assert.Contains(t, doc.Text(types.SectionRequirements), "Know Go.")
}

func TestSegment_SpecificHeadingBeatsGeneric(t *testing.T) {
	// "Preferred qualifications" must land in preferred, not requirements,
	// even though it contains the word "qualifications".
	text := `Requirements
Must know Go.

Preferred qualifications
Kafka is a plus.`

	doc := Segment(prepared(capture.BoardUnknown, text))

	assert.Contains(t, doc.Text(types.SectionRequirements), "Must know Go.")
	assert.Contains(t, doc.Text(types.SectionPreferred), "Kafka is a plus.")
	assert.NotContains(t, doc.Text(types.SectionRequirements), "Kafka")
}

func TestSegment_DuplicateHeadingsAreJoined(t *testing.T) {
	text := `Requirements
Go experience.

Responsibilities
Ship things.

Requirements
PostgreSQL experience.`

	doc := Segment(prepared(capture.BoardUnknown, text))

	reqs := doc.Text(types.SectionRequirements)
	assert.Contains(t, reqs, "Go experience.")
	assert.Contains(t, reqs, "PostgreSQL experience.")
}

func TestSegment_LongLinesAreNotHeadings(t *testing.T) {
	text := `Requirements and qualifications are important to us because we believe that great teams are built from people with varied experience levels.

Requirements
Go experience.`

	doc := Segment(prepared(capture.BoardUnknown, text))

	// The long prose line stays in the preamble; only the short line is a heading.
	assert.Contains(t, doc.Text(types.SectionSummary), "varied experience levels")
	assert.Contains(t, doc.Text(types.SectionRequirements), "Go experience.")
}

func TestSegment_BoardTrimRemovesFooter(t *testing.T) {
	text := `Requirements
Go experience required.

Similar jobs
Backend Engineer at OtherCo
Data Engineer at ThirdCo`

	doc := Segment(prepared(capture.BoardLinkedIn, text))

	assert.Contains(t, doc.Text(types.SectionRequirements), "Go experience required.")
	assert.NotContains(t, doc.FullText(), "OtherCo")
}

func TestSegment_UnknownBoardKeepsEverything(t *testing.T) {
	text := `Requirements
Go experience required.

Similar jobs
Backend Engineer at OtherCo`

	doc := Segment(prepared(capture.BoardUnknown, text))

	assert.Contains(t, doc.FullText(), "OtherCo")
}

func TestMatchHeading(t *testing.T) {
	tests := []struct {
		line     string
		expected types.Section
		ok       bool
	}{
		{"Requirements", types.SectionRequirements, true},
		{"requirements:", types.SectionRequirements, true},
		{"## What we offer", types.SectionBenefits, true},
		{"- Nice to have", types.SectionPreferred, true},
		{"About the role", types.SectionSummary, true},
		{"About us", types.SectionAboutCompany, true},
		{"", "", false},
		{"We have many requirements for this role and they matter a great deal to us and our customers overall", "", false},
	}

	for _, tt := range tests {
		section, ok := matchHeading(tt.line)
		require.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.expected, section, tt.line)
	}
}
