// Package types defines the shared data structures for the job capture pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// RemoteType classifies where the work happens.
type RemoteType string

// Remote type constants
const (
	RemoteTypeRemote RemoteType = "remote"
	RemoteTypeHybrid RemoteType = "hybrid"
	RemoteTypeOnsite RemoteType = "onsite"
)

// RoleType classifies the employment arrangement.
type RoleType string

// Role type constants
const (
	RoleTypeFullTime   RoleType = "full_time"
	RoleTypePartTime   RoleType = "part_time"
	RoleTypeContract   RoleType = "contract"
	RoleTypeInternship RoleType = "internship"
)

// Seniority is a coarse level derived from the title and body text.
type Seniority string

// Seniority constants, ordered from most to least senior
const (
	SeniorityExecutive Seniority = "executive"
	SeniorityVP        Seniority = "vp"
	SeniorityDirector  Seniority = "director"
	SeniorityPrincipal Seniority = "principal"
	SeniorityStaff     Seniority = "staff"
	SenioritySenior    Seniority = "senior"
	SeniorityMid       Seniority = "mid"
	SeniorityJunior    Seniority = "junior"
	SeniorityIntern    Seniority = "intern"
)

// SalaryPeriod is the pay period a salary figure refers to.
type SalaryPeriod string

// Salary period constants
const (
	SalaryPeriodYear  SalaryPeriod = "year"
	SalaryPeriodMonth SalaryPeriod = "month"
	SalaryPeriodHour  SalaryPeriod = "hour"
)

// Salary holds a parsed compensation range plus the raw matched text.
type Salary struct {
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Period   SalaryPeriod `json:"period,omitempty"`
	Raw      string       `json:"raw,omitempty"`
}

// IsZero reports whether no salary information was parsed.
func (s Salary) IsZero() bool {
	return s.Min == nil && s.Max == nil && s.Raw == ""
}

// JobDoc is the canonical persisted record for a single job posting,
// deduplicated by normalized URL.
type JobDoc struct {
	ID            uuid.UUID `json:"id"`
	NormalizedURL string    `json:"normalized_url"`
	SourceURL     string    `json:"source_url,omitempty"`

	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`

	Salary     Salary     `json:"salary"`
	RemoteType RemoteType `json:"remote_type,omitempty"`
	RoleType   RoleType   `json:"role_type,omitempty"`
	Seniority  Seniority  `json:"seniority,omitempty"`

	YearsExperienceMin *int `json:"years_experience_min,omitempty"`
	YearsExperienceMax *int `json:"years_experience_max,omitempty"`

	RequiredSkills  []string `json:"required_skills,omitempty"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`

	EasyApply bool    `json:"easy_apply"`
	Summary   *string `json:"summary,omitempty"`

	// Confidence holds the per-field confidence tier and source assigned by
	// the resolver. Keys are field names as they appear in JSON.
	Confidence map[string]FieldConfidence `json:"confidence,omitempty"`

	SaveCount int       `json:"save_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldConfidence tags one resolved field with its quality and origin.
type FieldConfidence struct {
	Confidence ConfidenceTier  `json:"confidence"`
	Source     CandidateSource `json:"source"`
}

// HasExtraction reports whether any extracted field beyond the URL is populated.
func (d *JobDoc) HasExtraction() bool {
	return d.Title != "" || d.Company != "" || !d.Salary.IsZero() ||
		d.Seniority != "" || len(d.RequiredSkills) > 0
}

// HasSummary reports whether an AI synopsis has been generated.
func (d *JobDoc) HasSummary() bool {
	return d.Summary != nil && *d.Summary != ""
}
