package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-capture/internal/schemas"
	"github.com/jonathan/job-capture/internal/types"
)

// maxExtractionInput bounds how much posting text is sent to the model.
const maxExtractionInput = 12000

// Extractor is the model-assisted structured extraction collaborator. It is
// responsible only for fields the rule-based parser cannot reliably produce;
// implementations must degrade to no candidates on timeout or malformed
// output rather than aborting the pipeline.
type Extractor interface {
	Extract(ctx context.Context, doc *types.SegmentedDocument, resolved map[types.FieldName]bool) ([]types.FieldCandidate, error)
}

// GeminiExtractor implements Extractor against the Gemini client.
type GeminiExtractor struct {
	client Client
	config *Config
}

// NewExtractor creates a model-assisted extractor over an LLM client.
func NewExtractor(client Client, config *Config) *GeminiExtractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &GeminiExtractor{client: client, config: config}
}

// extractionResult mirrors the job extraction schema.
type extractionResult struct {
	Title    *string `json:"title"`
	Company  *string `json:"company"`
	Industry *string `json:"industry"`
	Location *string `json:"location"`
	Salary   *struct {
		Min      *float64 `json:"min"`
		Max      *float64 `json:"max"`
		Currency *string  `json:"currency"`
		Period   *string  `json:"period"`
	} `json:"salary"`
}

// Extract runs one structured-extraction call bounded by the configured
// timeout and returns model-sourced candidates for the unresolved fields.
func (e *GeminiExtractor) Extract(ctx context.Context, doc *types.SegmentedDocument, resolved map[types.FieldName]bool) ([]types.FieldCandidate, error) {
	wanted := e.unresolvedFields(resolved)
	if len(wanted) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	prompt := buildExtractionPrompt(doc, wanted)
	response, err := e.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("model extraction failed: %w", err)
	}

	jsonBytes := []byte(CleanJSONBlock(response))
	if err := schemas.ValidateJobExtraction(jsonBytes); err != nil {
		return nil, fmt.Errorf("model output rejected: %w", err)
	}

	var result extractionResult
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}

	return candidatesFrom(result, resolved), nil
}

// unresolvedFields lists the model-eligible fields still missing after the
// rule-based pass.
func (e *GeminiExtractor) unresolvedFields(resolved map[types.FieldName]bool) []types.FieldName {
	eligible := []types.FieldName{
		types.FieldTitle, types.FieldCompany, types.FieldIndustry,
		types.FieldLocation, types.FieldSalary,
	}
	var wanted []types.FieldName
	for _, f := range eligible {
		if !resolved[f] {
			wanted = append(wanted, f)
		}
	}
	return wanted
}

// buildExtractionPrompt constructs the structured-extraction prompt, asking
// only for fields still unresolved to avoid redundant work.
func buildExtractionPrompt(doc *types.SegmentedDocument, wanted []types.FieldName) string {
	var sb strings.Builder
	sb.WriteString("You are an expert job posting parser. Extract the fields below from the posting text.\n")
	sb.WriteString("Use null for anything not stated in the text. Do not invent values.\n\n")
	sb.WriteString("Return ONLY valid JSON with exactly these keys:\n{\n")
	for i, f := range wanted {
		switch f {
		case types.FieldSalary:
			sb.WriteString("  \"salary\": {\"min\": number|null, \"max\": number|null, \"currency\": string|null, \"period\": \"year\"|\"month\"|\"hour\"|null}")
		default:
			sb.WriteString(fmt.Sprintf("  %q: string|null", string(f)))
		}
		if i < len(wanted)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	text := doc.FullText()
	if len(text) > maxExtractionInput {
		text = text[:maxExtractionInput]
	}
	sb.WriteString("Posting text:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// candidatesFrom converts a validated extraction result into model-sourced
// candidates, skipping fields the rules already resolved.
func candidatesFrom(result extractionResult, resolved map[types.FieldName]bool) []types.FieldCandidate {
	var candidates []types.FieldCandidate
	add := func(field types.FieldName, value any) {
		if resolved[field] {
			return
		}
		candidates = append(candidates, types.FieldCandidate{
			Field:      field,
			Value:      value,
			Confidence: types.ConfidenceMedium,
			Source:     types.SourceModel,
		})
	}

	if result.Title != nil && *result.Title != "" {
		add(types.FieldTitle, strings.TrimSpace(*result.Title))
	}
	if result.Company != nil && *result.Company != "" {
		add(types.FieldCompany, strings.TrimSpace(*result.Company))
	}
	if result.Industry != nil && *result.Industry != "" {
		add(types.FieldIndustry, strings.TrimSpace(*result.Industry))
	}
	if result.Location != nil && *result.Location != "" {
		add(types.FieldLocation, strings.TrimSpace(*result.Location))
	}
	if result.Salary != nil && (result.Salary.Min != nil || result.Salary.Max != nil) {
		salary := types.Salary{Min: result.Salary.Min, Max: result.Salary.Max}
		if result.Salary.Currency != nil {
			salary.Currency = *result.Salary.Currency
		}
		if result.Salary.Period != nil {
			salary.Period = types.SalaryPeriod(*result.Salary.Period)
		}
		add(types.FieldSalary, salary)
	}

	return candidates
}
