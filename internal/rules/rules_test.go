package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-capture/internal/types"
)

func TestParseSeniority(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		name       string
		title      string
		body       string
		expected   types.Seniority
		confidence types.ConfidenceTier
	}{
		{"title senior", "Senior Software Engineer", "", types.SenioritySenior, types.ConfidenceHigh},
		{"title staff", "Staff Engineer, Infrastructure", "", types.SeniorityStaff, types.ConfidenceHigh},
		{"title principal", "Principal Engineer", "", types.SeniorityPrincipal, types.ConfidenceHigh},
		{"title junior", "Jr. Backend Developer", "", types.SeniorityJunior, types.ConfidenceHigh},
		{"most senior family wins", "Senior Director of Engineering", "", types.SeniorityDirector, types.ConfidenceHigh},
		{"vp beats director", "VP of Engineering and Director of Platform", "", types.SeniorityVP, types.ConfidenceHigh},
		{"body only is medium", "", "We are hiring a senior engineer to lead this work.", types.SenioritySenior, types.ConfidenceMedium},
		{"title beats body", "Junior Analyst", "Looking for senior talent.", types.SeniorityJunior, types.ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.parseSeniority(tt.title, tt.body)
			require.NotNil(t, c)
			assert.Equal(t, tt.expected, c.Value)
			assert.Equal(t, tt.confidence, c.Confidence)
			assert.Equal(t, types.SourceRule, c.Source)
		})
	}
}

func TestParseSeniority_NoMatch(t *testing.T) {
	p := NewParser(Config{})
	assert.Nil(t, p.parseSeniority("Software Engineer", "We build things."))
}

func TestParseExperience(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		name        string
		text        string
		expectedMin int
		expectedMax *int
	}{
		{"range", "5-7 years of experience required", 5, intPtr(7)},
		{"range with to", "3 to 5 years working with Go", 3, intPtr(5)},
		{"plus", "8+ years of backend experience", 8, nil},
		{"at least", "at least 4 years in production environments", 4, nil},
		{"minimum of", "minimum of 2 years required", 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.parseExperience(tt.text)
			require.NotNil(t, c)
			v := c.Value.(types.YearsExperience)
			assert.Equal(t, tt.expectedMin, v.Min)
			if tt.expectedMax == nil {
				assert.Nil(t, v.Max)
			} else {
				require.NotNil(t, v.Max)
				assert.Equal(t, *tt.expectedMax, *v.Max)
			}
		})
	}
}

func TestParseExperience_RejectsImplausibleYears(t *testing.T) {
	p := NewParser(Config{})

	assert.Nil(t, p.parseExperience("founded 50 years ago"))
	assert.Nil(t, p.parseExperience("0 years of experience needed"))
	assert.Nil(t, p.parseExperience("no experience mentioned"))
}

func TestParseRemoteType(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		text     string
		expected types.RemoteType
	}{
		{"This is a hybrid role with 2 days in office", types.RemoteTypeHybrid},
		{"Fully remote, work from anywhere", types.RemoteTypeRemote},
		{"This position is on-site in Austin", types.RemoteTypeOnsite},
		// Hybrid postings usually mention remote too; hybrid must win.
		{"Hybrid schedule with remote Fridays", types.RemoteTypeHybrid},
	}

	for _, tt := range tests {
		c := p.parseRemoteType(tt.text)
		require.NotNil(t, c, tt.text)
		assert.Equal(t, tt.expected, c.Value, tt.text)
	}

	assert.Nil(t, p.parseRemoteType("Great team, great product."))
}

func TestParseRoleType(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		text     string
		expected types.RoleType
	}{
		{"This is a full-time position", types.RoleTypeFullTime},
		{"Part-time, 20 hours per week", types.RoleTypePartTime},
		{"6 month contract with possible extension", types.RoleTypeContract},
		{"Summer internship program", types.RoleTypeInternship},
		// An internship posting that mentions full-time conversion.
		{"Internship with potential for full-time conversion", types.RoleTypeInternship},
	}

	for _, tt := range tests {
		c := p.parseRoleType(tt.text)
		require.NotNil(t, c, tt.text)
		assert.Equal(t, tt.expected, c.Value, tt.text)
	}
}

func TestParseEasyApply(t *testing.T) {
	p := NewParser(Config{})

	c := p.parseEasyApply("Use Easy Apply to submit in one step")
	require.NotNil(t, c)
	assert.Equal(t, true, c.Value)

	assert.Nil(t, p.parseEasyApply("Apply through our careers portal"))
}

func TestNormalizeSkillName(t *testing.T) {
	assert.Equal(t, "go", NormalizeSkillName("Golang"))
	assert.Equal(t, "kubernetes", NormalizeSkillName("K8s"))
	assert.Equal(t, "node.js", NormalizeSkillName("NodeJS"))
	assert.Equal(t, "postgresql", NormalizeSkillName(" Postgres "))
	assert.Equal(t, "", NormalizeSkillName("underwater basket weaving"))
}

func TestExtractSkills_DeduplicatesVariants(t *testing.T) {
	skills := extractSkills("We use Go (golang) daily. Go experience required.")
	assert.Equal(t, []string{"go"}, skills)
}

func TestExtractSkills_MultiWord(t *testing.T) {
	skills := extractSkills("Experience with machine learning and google cloud required. Python a must.")
	assert.Contains(t, skills, "machine learning")
	assert.Contains(t, skills, "gcp")
	assert.Contains(t, skills, "python")
}

func TestParseSkills_SplitsPreferred(t *testing.T) {
	p := NewParser(Config{})
	doc := &types.SegmentedDocument{
		Sections: map[types.Section]string{
			types.SectionRequirements: "Strong Go and PostgreSQL skills. Kubernetes in production.",
			types.SectionPreferred:    "Redis and Kafka experience is a plus.",
		},
	}

	candidates := p.parseSkills(doc)
	require.Len(t, candidates, 2)

	byField := map[types.FieldName][]string{}
	for _, c := range candidates {
		byField[c.Field] = c.Value.([]string)
	}

	assert.ElementsMatch(t, []string{"go", "postgresql", "kubernetes"}, byField[types.FieldRequiredSkills])
	assert.ElementsMatch(t, []string{"redis", "kafka"}, byField[types.FieldPreferredSkills])
}

func TestParse_FullDocument(t *testing.T) {
	p := NewParser(Config{})
	doc := &types.SegmentedDocument{
		Sections: map[types.Section]string{
			types.SectionSummary:      "Acme is hiring. This is a full-time hybrid role.",
			types.SectionRequirements: "5+ years of experience with Go, Docker, and Terraform.",
			types.SectionBenefits:     "Salary: $120,000 - $150,000 per year. Easy apply enabled.",
		},
	}

	candidates := p.Parse(doc, "Senior Platform Engineer - Acme")

	fields := map[types.FieldName]types.FieldCandidate{}
	for _, c := range candidates {
		fields[c.Field] = c
	}

	assert.Contains(t, fields, types.FieldSalary)
	assert.Contains(t, fields, types.FieldSeniority)
	assert.Contains(t, fields, types.FieldYearsExperience)
	assert.Contains(t, fields, types.FieldRemoteType)
	assert.Contains(t, fields, types.FieldRoleType)
	assert.Contains(t, fields, types.FieldEasyApply)
	assert.Contains(t, fields, types.FieldRequiredSkills)
	assert.Equal(t, types.SenioritySenior, fields[types.FieldSeniority].Value)
}

func intPtr(i int) *int { return &i }
