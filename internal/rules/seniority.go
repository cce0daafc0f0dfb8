package rules

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-capture/internal/types"
)

// seniorityBodyLimit bounds how much body text is scanned for seniority
// keywords; titles carry the signal and deep-body matches are noisy.
const seniorityBodyLimit = 4000

// seniorityFamilies lists keyword families in fixed precedence order, most
// senior first. The first family with any match wins regardless of keyword
// order in the text, so "Senior Director" resolves to director.
var seniorityFamilies = []struct {
	level    types.Seniority
	keywords []string
}{
	{types.SeniorityExecutive, []string{"chief ", "cto", "ceo", "coo", "cfo", "executive"}},
	{types.SeniorityVP, []string{"vice president", "vp of", "vp,", "svp", "evp"}},
	{types.SeniorityDirector, []string{"director", "head of"}},
	{types.SeniorityPrincipal, []string{"principal"}},
	{types.SeniorityStaff, []string{"staff engineer", "staff software", "staff "}},
	{types.SenioritySenior, []string{"senior", "sr.", "sr "}},
	{types.SeniorityMid, []string{"mid-level", "mid level", "intermediate"}},
	{types.SeniorityJunior, []string{"junior", "jr.", "jr ", "entry level", "entry-level"}},
	{types.SeniorityIntern, []string{"intern ", "internship", "co-op"}},
}

var wordCleanRe = regexp.MustCompile(`[^a-z0-9.,+\- ]+`)

// parseSeniority classifies seniority from the title hint and the leading
// body text, checking families from most to least senior.
func (p *Parser) parseSeniority(title, body string) *types.FieldCandidate {
	if len(body) > seniorityBodyLimit {
		body = body[:seniorityBodyLimit]
	}

	titleLower := normalizeForMatch(title)
	bodyLower := normalizeForMatch(body)

	for _, family := range seniorityFamilies {
		for _, kw := range family.keywords {
			if containsKeyword(titleLower, kw) {
				return &types.FieldCandidate{
					Field:      types.FieldSeniority,
					Value:      family.level,
					Confidence: types.ConfidenceHigh,
					Source:     types.SourceRule,
				}
			}
		}
	}

	for _, family := range seniorityFamilies {
		for _, kw := range family.keywords {
			if containsKeyword(bodyLower, kw) {
				// Body-only matches are weaker evidence than title matches.
				return &types.FieldCandidate{
					Field:      types.FieldSeniority,
					Value:      family.level,
					Confidence: types.ConfidenceMedium,
					Source:     types.SourceRule,
				}
			}
		}
	}

	return nil
}

func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = wordCleanRe.ReplaceAllString(s, " ")
	// Pad so keyword families with trailing spaces match at string edges.
	return " " + s + " "
}

func containsKeyword(haystack, keyword string) bool {
	if strings.HasSuffix(keyword, " ") || strings.HasPrefix(keyword, " ") {
		return strings.Contains(haystack, keyword)
	}
	return strings.Contains(haystack, " "+keyword) || strings.Contains(haystack, keyword+" ") ||
		strings.Contains(haystack, keyword)
}
