package types

// ClientHints carry low-confidence signals supplied by the capture client
// alongside the raw page text.
type ClientHints struct {
	Board     string `json:"board,omitempty"`      // detected source board, e.g. "greenhouse"
	PageTitle string `json:"page_title,omitempty"` // document.title at capture time
}

// RawCapture is the immutable input to one pipeline run.
type RawCapture struct {
	URL     string      `json:"posting_url" validate:"required,url"`
	RawText string      `json:"raw_text" validate:"required"`
	Hints   ClientHints `json:"client_hints"`
}

// Section names a canonical region of a segmented posting.
type Section string

// Section constants
const (
	SectionSummary          Section = "summary"
	SectionResponsibilities Section = "responsibilities"
	SectionRequirements     Section = "requirements"
	SectionPreferred        Section = "preferred"
	SectionBenefits         Section = "benefits"
	SectionAboutCompany     Section = "about_company"
	SectionOther            Section = "other"
)

// SegmentedDocument maps canonical sections to their extracted text spans.
// Derived from a RawCapture; owned by a single pipeline run.
type SegmentedDocument struct {
	Sections map[Section]string `json:"sections"`
	Board    string             `json:"board,omitempty"`
}

// Text returns the span for a section, or "" when absent.
func (d *SegmentedDocument) Text(s Section) string {
	if d == nil || d.Sections == nil {
		return ""
	}
	return d.Sections[s]
}

// FullText joins every section span in canonical order. Used by stages that
// want the whole cleaned posting regardless of segmentation quality.
func (d *SegmentedDocument) FullText() string {
	if d == nil || d.Sections == nil {
		return ""
	}
	order := []Section{
		SectionSummary, SectionResponsibilities, SectionRequirements,
		SectionPreferred, SectionBenefits, SectionAboutCompany, SectionOther,
	}
	var out string
	for _, s := range order {
		if span := d.Sections[s]; span != "" {
			if out != "" {
				out += "\n\n"
			}
			out += span
		}
	}
	return out
}
