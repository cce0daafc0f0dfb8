// Package resolve merges rule-based, model-assisted, and client-hint field
// candidates into one resolved JobDoc field set with per-field confidence.
// Everything here is pure: candidates in, fields out.
package resolve

import (
	"github.com/jonathan/job-capture/internal/types"
)

// sourcePrecedence orders candidate sources from most to least trusted.
// Rules are high-precision by construction, the model fills the gaps, and
// client hints are a last resort.
var sourcePrecedence = map[types.CandidateSource]int{
	types.SourceRule:   3,
	types.SourceModel:  2,
	types.SourceClient: 1,
}

// Resolve picks one winning candidate per field and applies the winners to a
// JobDoc, recording each field's confidence tier and source. Fields with no
// candidate stay zero-valued and get no confidence entry.
func Resolve(doc *types.JobDoc, candidates []types.FieldCandidate) {
	winners := make(map[types.FieldName]types.FieldCandidate)
	for _, c := range candidates {
		current, ok := winners[c.Field]
		if !ok || sourcePrecedence[c.Source] > sourcePrecedence[current.Source] {
			winners[c.Field] = c
		}
	}

	if doc.Confidence == nil {
		doc.Confidence = make(map[string]types.FieldConfidence)
	}

	for field, winner := range winners {
		if !apply(doc, winner) {
			continue
		}
		doc.Confidence[string(field)] = types.FieldConfidence{
			Confidence: winner.Confidence,
			Source:     winner.Source,
		}
	}
}

// apply sets one winning candidate's value on the doc. Returns false when
// the value has an unexpected type and is skipped.
func apply(doc *types.JobDoc, c types.FieldCandidate) bool {
	switch c.Field {
	case types.FieldTitle:
		return setString(&doc.Title, c.Value)
	case types.FieldCompany:
		return setString(&doc.Company, c.Value)
	case types.FieldIndustry:
		return setString(&doc.Industry, c.Value)
	case types.FieldLocation:
		return setString(&doc.Location, c.Value)
	case types.FieldSalary:
		salary, ok := c.Value.(types.Salary)
		if !ok || salary.IsZero() {
			return false
		}
		doc.Salary = salary
		return true
	case types.FieldRemoteType:
		v, ok := c.Value.(types.RemoteType)
		if ok {
			doc.RemoteType = v
		}
		return ok
	case types.FieldRoleType:
		v, ok := c.Value.(types.RoleType)
		if ok {
			doc.RoleType = v
		}
		return ok
	case types.FieldSeniority:
		v, ok := c.Value.(types.Seniority)
		if ok {
			doc.Seniority = v
		}
		return ok
	case types.FieldYearsExperience:
		v, ok := c.Value.(types.YearsExperience)
		if !ok {
			return false
		}
		minYears := v.Min
		doc.YearsExperienceMin = &minYears
		doc.YearsExperienceMax = v.Max
		return true
	case types.FieldRequiredSkills:
		v, ok := c.Value.([]string)
		if ok && len(v) > 0 {
			doc.RequiredSkills = v
			return true
		}
		return false
	case types.FieldPreferredSkills:
		v, ok := c.Value.([]string)
		if ok && len(v) > 0 {
			doc.PreferredSkills = v
			return true
		}
		return false
	case types.FieldEasyApply:
		v, ok := c.Value.(bool)
		if ok {
			doc.EasyApply = v
		}
		return ok
	default:
		return false
	}
}

func setString(dst *string, value any) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return false
	}
	*dst = s
	return true
}

// ResolvedFields reports which fields already carry a candidate, used by the
// model-assisted extractor to skip redundant work.
func ResolvedFields(candidates []types.FieldCandidate) map[types.FieldName]bool {
	resolved := make(map[types.FieldName]bool, len(candidates))
	for _, c := range candidates {
		resolved[c.Field] = true
	}
	return resolved
}
