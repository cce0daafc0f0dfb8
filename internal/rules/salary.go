package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-capture/internal/types"
)

// Salary patterns. The range form is tried first: two amounts joined by a
// dash-like separator, each optionally carrying a currency symbol and a
// thousands marker. The single form accepts one amount with an optional
// period qualifier.
var (
	salaryRangeRe  = regexp.MustCompile(`(?i)([$€£])?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([kK])?\s*(?:-|–|—|to)\s*([$€£])?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([kK])?(?:\s*(?:per|/|a)\s*(year|yr|annum|month|mo|hour|hr|h))?`)
	salarySingleRe = regexp.MustCompile(`(?i)([$€£])\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*([kK])?\s*(?:(?:per|/|a)\s*(year|yr|annum|month|mo|hour|hr|h))?`)
)

// parseSalary extracts a salary candidate from text, range pattern first.
// No match is not an error; it simply yields no candidate.
func (p *Parser) parseSalary(text string) *types.FieldCandidate {
	for _, m := range salaryRangeRe.FindAllStringSubmatch(text, -1) {
		minVal, okMin := parseAmount(m[2])
		maxVal, okMax := parseAmount(m[5])
		// A bare small range like "5-7" is almost always years, not pay;
		// skip it and keep scanning for a real figure.
		plausible := m[1] != "" || m[4] != "" || m[3] != "" || m[6] != "" ||
			(minVal >= 1000 && maxVal >= 1000)
		if okMin && okMax && plausible {
			period := normalizePeriod(m[7])
			minVal = p.scaleThousands(minVal, m[3] != "", period)
			maxVal = p.scaleThousands(maxVal, m[6] != "", period)
			if period == "" {
				period = types.SalaryPeriodYear
			}
			salary := types.Salary{
				Min:      &minVal,
				Max:      &maxVal,
				Currency: currencyFor(firstNonEmpty(m[1], m[4])),
				Period:   period,
				Raw:      strings.TrimSpace(m[0]),
			}
			return &types.FieldCandidate{
				Field:      types.FieldSalary,
				Value:      salary,
				Confidence: types.ConfidenceHigh,
				Source:     types.SourceRule,
			}
		}
	}

	if m := salarySingleRe.FindStringSubmatch(text); m != nil {
		amount, ok := parseAmount(m[2])
		if ok {
			period := normalizePeriod(m[4])
			amount = p.scaleThousands(amount, m[3] != "", period)
			if period == "" {
				period = types.SalaryPeriodYear
			}
			salary := types.Salary{
				Min:      &amount,
				Currency: currencyFor(m[1]),
				Period:   period,
				Raw:      strings.TrimSpace(m[0]),
			}
			return &types.FieldCandidate{
				Field:      types.FieldSalary,
				Value:      salary,
				Confidence: types.ConfidenceHigh,
				Source:     types.SourceRule,
			}
		}
	}

	return nil
}

// scaleThousands applies the "bare number in thousands" heuristic: amounts
// below the configured bound carrying a k-marker scale ×1000. Hourly and
// monthly figures never scale, so "$80/hr" stays 80.
func (p *Parser) scaleThousands(amount float64, hasMarker bool, period types.SalaryPeriod) float64 {
	if period == types.SalaryPeriodHour || period == types.SalaryPeriodMonth {
		return amount
	}
	if hasMarker && amount < float64(p.cfg.ThousandsBound) {
		return amount * 1000
	}
	return amount
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func normalizePeriod(s string) types.SalaryPeriod {
	switch strings.ToLower(s) {
	case "year", "yr", "annum":
		return types.SalaryPeriodYear
	case "month", "mo":
		return types.SalaryPeriodMonth
	case "hour", "hr", "h":
		return types.SalaryPeriodHour
	default:
		return ""
	}
}

func currencyFor(symbol string) string {
	switch symbol {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
