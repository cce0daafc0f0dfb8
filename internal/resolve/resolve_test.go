package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-capture/internal/types"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestResolve_SourcePrecedence(t *testing.T) {
	candidates := []types.FieldCandidate{
		{Field: types.FieldTitle, Value: "Engineer (from client)", Confidence: types.ConfidenceLow, Source: types.SourceClient},
		{Field: types.FieldTitle, Value: "Engineer (from model)", Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		{Field: types.FieldCompany, Value: "Acme", Confidence: types.ConfidenceMedium, Source: types.SourceModel},
	}

	doc := &types.JobDoc{}
	Resolve(doc, candidates)

	assert.Equal(t, "Engineer (from model)", doc.Title)
	assert.Equal(t, "Acme", doc.Company)
	assert.Equal(t, types.SourceModel, doc.Confidence["title"].Source)
	assert.Equal(t, types.ConfidenceMedium, doc.Confidence["title"].Confidence)
}

func TestResolve_RuleBeatsModel(t *testing.T) {
	candidates := []types.FieldCandidate{
		{Field: types.FieldSalary, Value: types.Salary{Min: floatPtr(90000), Period: types.SalaryPeriodYear}, Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		{Field: types.FieldSalary, Value: types.Salary{Min: floatPtr(150000), Max: floatPtr(200000), Currency: "USD", Period: types.SalaryPeriodYear, Raw: "$150,000 - $200,000"}, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
	}

	doc := &types.JobDoc{}
	Resolve(doc, candidates)

	require.NotNil(t, doc.Salary.Min)
	assert.Equal(t, 150000.0, *doc.Salary.Min)
	assert.Equal(t, types.SourceRule, doc.Confidence["salary"].Source)
}

func TestResolve_TypedFields(t *testing.T) {
	maxYears := 7
	candidates := []types.FieldCandidate{
		{Field: types.FieldSeniority, Value: types.SenioritySenior, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		{Field: types.FieldRemoteType, Value: types.RemoteTypeHybrid, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		{Field: types.FieldYearsExperience, Value: types.YearsExperience{Min: 5, Max: &maxYears}, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		{Field: types.FieldRequiredSkills, Value: []string{"go", "postgresql"}, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		{Field: types.FieldEasyApply, Value: true, Confidence: types.ConfidenceHigh, Source: types.SourceRule},
	}

	doc := &types.JobDoc{}
	Resolve(doc, candidates)

	assert.Equal(t, types.SenioritySenior, doc.Seniority)
	assert.Equal(t, types.RemoteTypeHybrid, doc.RemoteType)
	require.NotNil(t, doc.YearsExperienceMin)
	assert.Equal(t, 5, *doc.YearsExperienceMin)
	require.NotNil(t, doc.YearsExperienceMax)
	assert.Equal(t, 7, *doc.YearsExperienceMax)
	assert.Equal(t, []string{"go", "postgresql"}, doc.RequiredSkills)
	assert.True(t, doc.EasyApply)
}

func TestResolve_SkipsMistypedAndEmptyValues(t *testing.T) {
	candidates := []types.FieldCandidate{
		{Field: types.FieldTitle, Value: 42, Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		{Field: types.FieldCompany, Value: "", Confidence: types.ConfidenceMedium, Source: types.SourceModel},
	}

	doc := &types.JobDoc{}
	Resolve(doc, candidates)

	assert.Empty(t, doc.Title)
	assert.Empty(t, doc.Company)
	assert.NotContains(t, doc.Confidence, "title")
	assert.NotContains(t, doc.Confidence, "company")
}

func TestResolvedFields(t *testing.T) {
	candidates := []types.FieldCandidate{
		{Field: types.FieldTitle, Source: types.SourceClient},
		{Field: types.FieldSalary, Source: types.SourceRule},
	}

	resolved := ResolvedFields(candidates)

	assert.True(t, resolved[types.FieldTitle])
	assert.True(t, resolved[types.FieldSalary])
	assert.False(t, resolved[types.FieldCompany])
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		doc      types.JobDoc
		expected int
	}{
		{
			name:     "bare doc gets the base score",
			doc:      types.JobDoc{},
			expected: 50,
		},
		{
			name: "salary adds fifteen",
			doc: types.JobDoc{
				Salary: types.Salary{Min: floatPtr(100000)},
			},
			expected: 65,
		},
		{
			name: "experience and seniority add ten each",
			doc: types.JobDoc{
				YearsExperienceMin: intPtr(5),
				Seniority:          types.SenioritySenior,
			},
			expected: 70,
		},
		{
			name: "three skills are not enough for the skills bonus",
			doc: types.JobDoc{
				RequiredSkills: []string{"go", "kubernetes", "postgresql"},
			},
			expected: 50,
		},
		{
			name: "four skills earn the bonus",
			doc: types.JobDoc{
				RequiredSkills: []string{"go", "kubernetes", "postgresql", "redis"},
			},
			expected: 65,
		},
		{
			name: "everything resolved caps at one hundred",
			doc: types.JobDoc{
				Salary:             types.Salary{Min: floatPtr(150000), Max: floatPtr(200000)},
				YearsExperienceMin: intPtr(5),
				Seniority:          types.SeniorityStaff,
				RequiredSkills:     []string{"go", "kubernetes", "postgresql", "redis", "grpc"},
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(&tt.doc))
		})
	}
}

func TestMerge_NeverDowngradesHighConfidence(t *testing.T) {
	stored := &types.JobDoc{
		Title: "Senior Platform Engineer",
		Confidence: map[string]types.FieldConfidence{
			"title": {Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		},
	}
	incoming := &types.JobDoc{
		Title: "Platform Engineer",
		Confidence: map[string]types.FieldConfidence{
			"title": {Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		},
	}

	updates := Merge(stored, incoming)

	assert.Empty(t, updates)
}

func TestMerge_FillsEmptyFields(t *testing.T) {
	stored := &types.JobDoc{
		Title: "Senior Platform Engineer",
		Confidence: map[string]types.FieldConfidence{
			"title": {Confidence: types.ConfidenceHigh, Source: types.SourceRule},
		},
	}
	incoming := &types.JobDoc{
		Title:   "Senior Platform Engineer",
		Company: "Acme",
		Confidence: map[string]types.FieldConfidence{
			"title":   {Confidence: types.ConfidenceHigh, Source: types.SourceRule},
			"company": {Confidence: types.ConfidenceLow, Source: types.SourceClient},
		},
	}

	updates := Merge(stored, incoming)

	require.Len(t, updates, 1)
	assert.Equal(t, types.FieldCompany, updates[0].Field)
	assert.Equal(t, "Acme", updates[0].Value)
	assert.Equal(t, types.ConfidenceLow, updates[0].Confidence.Confidence)
}

func TestMerge_UpgradesLowerTiers(t *testing.T) {
	stored := &types.JobDoc{
		Company: "acme (guessed)",
		Confidence: map[string]types.FieldConfidence{
			"company": {Confidence: types.ConfidenceLow, Source: types.SourceClient},
		},
	}
	incoming := &types.JobDoc{
		Company: "Acme Corp",
		Confidence: map[string]types.FieldConfidence{
			"company": {Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		},
	}

	updates := Merge(stored, incoming)

	require.Len(t, updates, 1)
	assert.Equal(t, types.FieldCompany, updates[0].Field)
	assert.Equal(t, "Acme Corp", updates[0].Value)
}

func TestMerge_EqualTierKeepsStored(t *testing.T) {
	stored := &types.JobDoc{
		Location: "Berlin",
		Confidence: map[string]types.FieldConfidence{
			"location": {Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		},
	}
	incoming := &types.JobDoc{
		Location: "Munich",
		Confidence: map[string]types.FieldConfidence{
			"location": {Confidence: types.ConfidenceMedium, Source: types.SourceModel},
		},
	}

	assert.Empty(t, Merge(stored, incoming))
}

func TestApplyUpdates(t *testing.T) {
	doc := &types.JobDoc{Title: "Senior Platform Engineer"}
	maxYears := 8
	updates := []FieldUpdate{
		{Field: types.FieldCompany, Value: "Acme", Confidence: types.FieldConfidence{Confidence: types.ConfidenceMedium, Source: types.SourceModel}},
		{Field: types.FieldYearsExperience, Value: types.YearsExperience{Min: 5, Max: &maxYears}, Confidence: types.FieldConfidence{Confidence: types.ConfidenceHigh, Source: types.SourceRule}},
	}

	ApplyUpdates(doc, updates)

	assert.Equal(t, "Acme", doc.Company)
	require.NotNil(t, doc.YearsExperienceMin)
	assert.Equal(t, 5, *doc.YearsExperienceMin)
	assert.Equal(t, types.ConfidenceHigh, doc.Confidence["years_experience"].Confidence)
}
