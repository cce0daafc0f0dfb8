package rules

import (
	"regexp"
	"strconv"

	"github.com/jonathan/job-capture/internal/types"
)

// Years-of-experience bounds. Values outside this window are treated as
// false positives from unrelated numbers.
const (
	minSaneYears = 1
	maxSaneYears = 30
)

var (
	yearsRangeRe   = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|–|—|to)\s*(\d{1,2})\+?\s*years?`)
	yearsPlusRe    = regexp.MustCompile(`(?i)(\d{1,2})\s*\+\s*years?`)
	yearsAtLeastRe = regexp.MustCompile(`(?i)(?:at least|minimum(?: of)?|min\.?)\s*(\d{1,2})\s*years?`)
)

// parseExperience matches "N–M years", "N+ years", and "at least N years"
// patterns, in that order, rejecting values outside the sane bound.
func (p *Parser) parseExperience(text string) *types.FieldCandidate {
	if m := yearsRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if saneYears(lo) && saneYears(hi) && lo <= hi {
			return experienceCandidate(types.YearsExperience{Min: lo, Max: &hi})
		}
	}

	if m := yearsPlusRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if saneYears(n) {
			return experienceCandidate(types.YearsExperience{Min: n})
		}
	}

	if m := yearsAtLeastRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if saneYears(n) {
			return experienceCandidate(types.YearsExperience{Min: n})
		}
	}

	return nil
}

func experienceCandidate(v types.YearsExperience) *types.FieldCandidate {
	return &types.FieldCandidate{
		Field:      types.FieldYearsExperience,
		Value:      v,
		Confidence: types.ConfidenceHigh,
		Source:     types.SourceRule,
	}
}

func saneYears(n int) bool {
	return n >= minSaneYears && n <= maxSaneYears
}
