package resolve

import (
	"github.com/jonathan/job-capture/internal/types"
)

// Aggregate score weights. Every capture with enough text to enter the
// pipeline starts at the base; structured findings add fixed increments.
const (
	scoreBase           = 50
	scoreSalaryParsed   = 15
	scoreExperienceSet  = 10
	scoreSkillsRich     = 15
	scoreSenioritySet   = 10
	scoreMax            = 100
	richSkillsThreshold = 3
)

// Score computes the aggregate extraction confidence for a resolved doc.
// The result is a coarse 50-100 quality signal, not a probability.
func Score(doc *types.JobDoc) int {
	score := scoreBase
	if !doc.Salary.IsZero() {
		score += scoreSalaryParsed
	}
	if doc.YearsExperienceMin != nil {
		score += scoreExperienceSet
	}
	if len(doc.RequiredSkills) > richSkillsThreshold {
		score += scoreSkillsRich
	}
	if doc.Seniority != "" {
		score += scoreSenioritySet
	}
	if score > scoreMax {
		score = scoreMax
	}
	return score
}
