package resolve

import (
	"github.com/jonathan/job-capture/internal/types"
)

// FieldUpdate is one field change the merge decided to keep, carrying the
// new value and its confidence entry so persistence can apply it as a single
// conditional write.
type FieldUpdate struct {
	Field      types.FieldName
	Value      any
	Confidence types.FieldConfidence
}

// Merge compares a freshly extracted doc against the stored one and returns
// the field updates that are allowed: a stored field is replaced only when
// the incoming confidence tier is strictly higher, or when the stored doc
// has no value for it. A stored high-confidence field is never downgraded.
// The stored doc is not mutated.
func Merge(stored, incoming *types.JobDoc) []FieldUpdate {
	var updates []FieldUpdate
	consider := func(field types.FieldName, storedEmpty bool, value any) {
		inc, ok := incoming.Confidence[string(field)]
		if !ok {
			return
		}
		cur, hasCur := stored.Confidence[string(field)]
		if storedEmpty && !hasCur {
			updates = append(updates, FieldUpdate{Field: field, Value: value, Confidence: inc})
			return
		}
		if inc.Confidence.Rank() > cur.Confidence.Rank() {
			updates = append(updates, FieldUpdate{Field: field, Value: value, Confidence: inc})
		}
	}

	consider(types.FieldTitle, stored.Title == "", incoming.Title)
	consider(types.FieldCompany, stored.Company == "", incoming.Company)
	consider(types.FieldIndustry, stored.Industry == "", incoming.Industry)
	consider(types.FieldLocation, stored.Location == "", incoming.Location)
	consider(types.FieldSalary, stored.Salary.IsZero(), incoming.Salary)
	consider(types.FieldRemoteType, stored.RemoteType == "", incoming.RemoteType)
	consider(types.FieldRoleType, stored.RoleType == "", incoming.RoleType)
	consider(types.FieldSeniority, stored.Seniority == "", incoming.Seniority)
	consider(types.FieldYearsExperience, stored.YearsExperienceMin == nil, yearsValue(incoming))
	consider(types.FieldRequiredSkills, len(stored.RequiredSkills) == 0, incoming.RequiredSkills)
	consider(types.FieldPreferredSkills, len(stored.PreferredSkills) == 0, incoming.PreferredSkills)
	consider(types.FieldEasyApply, !stored.EasyApply, incoming.EasyApply)

	return updates
}

// ApplyUpdates writes a set of merge decisions onto a doc copy, keeping the
// in-memory view consistent with what persistence wrote.
func ApplyUpdates(doc *types.JobDoc, updates []FieldUpdate) {
	if doc.Confidence == nil && len(updates) > 0 {
		doc.Confidence = make(map[string]types.FieldConfidence)
	}
	for _, u := range updates {
		candidate := types.FieldCandidate{
			Field:      u.Field,
			Value:      u.Value,
			Confidence: u.Confidence.Confidence,
			Source:     u.Confidence.Source,
		}
		if apply(doc, candidate) {
			doc.Confidence[string(u.Field)] = u.Confidence
		}
	}
}

func yearsValue(doc *types.JobDoc) any {
	if doc.YearsExperienceMin == nil {
		return nil
	}
	return types.YearsExperience{Min: *doc.YearsExperienceMin, Max: doc.YearsExperienceMax}
}
