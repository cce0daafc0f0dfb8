// Package rules extracts JobDoc fields from segmented posting text using
// deterministic pattern matching against a versioned taxonomy. The parser
// never calls an external service and never blocks; each field match is
// independent, so one miss does not affect the others.
package rules

import (
	"github.com/jonathan/job-capture/internal/types"
)

// Config tunes the parser heuristics.
type Config struct {
	// ThousandsBound controls the "bare number in thousands" salary
	// heuristic: amounts below this carrying a k-marker scale ×1000.
	ThousandsBound int
}

// DefaultConfig returns the parser defaults.
func DefaultConfig() Config {
	return Config{ThousandsBound: 1000}
}

// Parser runs the rule-based field extraction.
type Parser struct {
	cfg Config
}

// NewParser creates a parser with the given config, filling zero values
// from defaults.
func NewParser(cfg Config) *Parser {
	if cfg.ThousandsBound == 0 {
		cfg.ThousandsBound = DefaultConfig().ThousandsBound
	}
	return &Parser{cfg: cfg}
}

// Parse extracts all rule-based field candidates from a segmented document.
// The title hint sharpens seniority classification when the capture client
// supplied a page title.
func (p *Parser) Parse(doc *types.SegmentedDocument, titleHint string) []types.FieldCandidate {
	text := doc.FullText()

	var candidates []types.FieldCandidate
	appendIf := func(c *types.FieldCandidate) {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	appendIf(p.parseSalary(text))
	appendIf(p.parseSeniority(titleHint, text))
	appendIf(p.parseExperience(text))
	appendIf(p.parseRemoteType(text))
	appendIf(p.parseRoleType(text))
	appendIf(p.parseEasyApply(text))
	candidates = append(candidates, p.parseSkills(doc)...)

	return candidates
}
