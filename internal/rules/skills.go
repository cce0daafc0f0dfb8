package rules

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-capture/internal/types"
)

// TaxonomyVersion identifies the skill taxonomy revision used by this build.
// Bump when skills or synonyms change so stored docs can be re-parsed.
const TaxonomyVersion = "v1"

// MaxSkills caps the skills list per posting.
const MaxSkills = 30

// skillSynonyms maps variant spellings to the canonical (lowercase) skill
// name. Canonical names map to themselves.
var skillSynonyms = map[string]string{
	"go":            "go",
	"golang":        "go",
	"python":        "python",
	"java":          "java",
	"javascript":    "javascript",
	"js":            "javascript",
	"typescript":    "typescript",
	"ts":            "typescript",
	"ruby":          "ruby",
	"rust":          "rust",
	"c++":           "c++",
	"c#":            "c#",
	"php":           "php",
	"scala":         "scala",
	"kotlin":        "kotlin",
	"swift":         "swift",
	"sql":           "sql",
	"react":         "react",
	"reactjs":       "react",
	"react.js":      "react",
	"vue":           "vue",
	"vuejs":         "vue",
	"vue.js":        "vue",
	"angular":       "angular",
	"node":          "node.js",
	"nodejs":        "node.js",
	"node.js":       "node.js",
	"django":        "django",
	"rails":         "rails",
	"spring":        "spring",
	"kubernetes":    "kubernetes",
	"k8s":           "kubernetes",
	"docker":        "docker",
	"terraform":     "terraform",
	"ansible":       "ansible",
	"aws":           "aws",
	"amazon web services": "aws",
	"gcp":           "gcp",
	"google cloud":  "gcp",
	"azure":         "azure",
	"postgresql":    "postgresql",
	"postgres":      "postgresql",
	"mysql":         "mysql",
	"mongodb":       "mongodb",
	"redis":         "redis",
	"elasticsearch": "elasticsearch",
	"kafka":         "kafka",
	"rabbitmq":      "rabbitmq",
	"graphql":       "graphql",
	"grpc":          "grpc",
	"rest":          "rest",
	"git":           "git",
	"linux":         "linux",
	"ci/cd":         "ci/cd",
	"machine learning": "machine learning",
	"ml":            "machine learning",
	"deep learning": "deep learning",
	"nlp":           "nlp",
	"pytorch":       "pytorch",
	"tensorflow":    "tensorflow",
	"pandas":        "pandas",
	"spark":         "spark",
	"airflow":       "airflow",
	"snowflake":     "snowflake",
	"tableau":       "tableau",
	"figma":         "figma",
	"jira":          "jira",
}

// skillTokenRe splits text into candidate skill tokens, keeping characters
// that appear in skill names like "c++", "node.js", and "ci/cd".
var skillTokenRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+#./]*`)

// NormalizeSkillName maps a skill variant to its canonical lowercase name,
// or "" when the token is not in the taxonomy.
func NormalizeSkillName(name string) string {
	return skillSynonyms[strings.ToLower(strings.TrimSpace(name))]
}

// extractSkills scans text for taxonomy skills, returning canonical names in
// first-seen order, deduplicated and capped at MaxSkills.
func extractSkills(text string) []string {
	var skills []string
	seen := make(map[string]bool)

	// Multi-word entries first: token scanning can't see them.
	lower := strings.ToLower(text)
	for variant, canonical := range skillSynonyms {
		if !strings.Contains(variant, " ") {
			continue
		}
		if strings.Contains(lower, variant) && !seen[canonical] {
			seen[canonical] = true
			skills = append(skills, canonical)
		}
	}

	for _, token := range skillTokenRe.FindAllString(text, -1) {
		canonical := NormalizeSkillName(token)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		skills = append(skills, canonical)
		if len(skills) >= MaxSkills {
			break
		}
	}

	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

// parseSkills produces required and preferred skill candidates. Skills in
// the preferred section are preferred; everything else found in the posting
// is required.
func (p *Parser) parseSkills(doc *types.SegmentedDocument) []types.FieldCandidate {
	var candidates []types.FieldCandidate

	preferred := extractSkills(doc.Text(types.SectionPreferred))
	preferredSet := make(map[string]bool, len(preferred))
	for _, s := range preferred {
		preferredSet[s] = true
	}

	var required []string
	for _, s := range extractSkills(doc.FullText()) {
		if !preferredSet[s] {
			required = append(required, s)
		}
	}

	if len(required) > 0 {
		candidates = append(candidates, types.FieldCandidate{
			Field:      types.FieldRequiredSkills,
			Value:      required,
			Confidence: types.ConfidenceHigh,
			Source:     types.SourceRule,
		})
	}
	if len(preferred) > 0 {
		candidates = append(candidates, types.FieldCandidate{
			Field:      types.FieldPreferredSkills,
			Value:      preferred,
			Confidence: types.ConfidenceHigh,
			Source:     types.SourceRule,
		})
	}
	return candidates
}
