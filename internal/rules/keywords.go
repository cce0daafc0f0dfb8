package rules

import (
	"strings"

	"github.com/jonathan/job-capture/internal/types"
)

// Remote, role type, and easy-apply are matched against fixed keyword
// taxonomies. Each match is independent; a miss yields no candidate.

var remoteKeywords = []struct {
	value    types.RemoteType
	keywords []string
}{
	{types.RemoteTypeHybrid, []string{"hybrid"}},
	{types.RemoteTypeRemote, []string{"fully remote", "100% remote", "remote-first", "work from home", "remote"}},
	{types.RemoteTypeOnsite, []string{"on-site", "onsite", "in-office", "in office", "in person"}},
}

var roleTypeKeywords = []struct {
	value    types.RoleType
	keywords []string
}{
	{types.RoleTypeInternship, []string{"internship", "intern position"}},
	{types.RoleTypePartTime, []string{"part-time", "part time"}},
	{types.RoleTypeContract, []string{"contract", "contractor", "freelance", "temporary"}},
	{types.RoleTypeFullTime, []string{"full-time", "full time", "permanent"}},
}

var easyApplyKeywords = []string{"easy apply", "quick apply", "1-click apply", "one-click apply"}

func (p *Parser) parseRemoteType(text string) *types.FieldCandidate {
	lower := strings.ToLower(text)
	for _, group := range remoteKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return &types.FieldCandidate{
					Field:      types.FieldRemoteType,
					Value:      group.value,
					Confidence: types.ConfidenceHigh,
					Source:     types.SourceRule,
				}
			}
		}
	}
	return nil
}

func (p *Parser) parseRoleType(text string) *types.FieldCandidate {
	lower := strings.ToLower(text)
	for _, group := range roleTypeKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return &types.FieldCandidate{
					Field:      types.FieldRoleType,
					Value:      group.value,
					Confidence: types.ConfidenceHigh,
					Source:     types.SourceRule,
				}
			}
		}
	}
	return nil
}

func (p *Parser) parseEasyApply(text string) *types.FieldCandidate {
	lower := strings.ToLower(text)
	for _, kw := range easyApplyKeywords {
		if strings.Contains(lower, kw) {
			return &types.FieldCandidate{
				Field:      types.FieldEasyApply,
				Value:      true,
				Confidence: types.ConfidenceHigh,
				Source:     types.SourceRule,
			}
		}
	}
	return nil
}
