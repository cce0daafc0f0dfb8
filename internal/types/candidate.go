package types

// ConfidenceTier is a coarse quality label for a resolved field.
type ConfidenceTier string

// Confidence tier constants
const (
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
)

// Rank orders tiers so merges can compare them. Unknown tiers rank lowest.
func (t ConfidenceTier) Rank() int {
	switch t {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// CandidateSource identifies which stage proposed a field value.
type CandidateSource string

// Candidate source constants
const (
	SourceRule   CandidateSource = "rule"
	SourceModel  CandidateSource = "model"
	SourceClient CandidateSource = "client"
)

// FieldName identifies a JobDoc field during resolution.
type FieldName string

// Field name constants, matching JobDoc JSON field names
const (
	FieldTitle           FieldName = "title"
	FieldCompany         FieldName = "company"
	FieldIndustry        FieldName = "industry"
	FieldLocation        FieldName = "location"
	FieldSalary          FieldName = "salary"
	FieldRemoteType      FieldName = "remote_type"
	FieldRoleType        FieldName = "role_type"
	FieldSeniority       FieldName = "seniority"
	FieldYearsExperience FieldName = "years_experience"
	FieldRequiredSkills  FieldName = "required_skills"
	FieldPreferredSkills FieldName = "preferred_skills"
	FieldEasyApply       FieldName = "easy_apply"
)

// YearsExperience is a parsed experience requirement carried as a candidate
// value for FieldYearsExperience.
type YearsExperience struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// FieldCandidate is one proposed value for a JobDoc field, tagged with its
// origin and confidence. Multiple candidates may exist per field during
// resolution; exactly one survives after the resolver runs.
type FieldCandidate struct {
	Field      FieldName       `json:"field"`
	Value      any             `json:"value"`
	Confidence ConfidenceTier  `json:"confidence"`
	Source     CandidateSource `json:"source"`
}
