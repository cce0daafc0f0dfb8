// Package summarize produces a short natural-language synopsis of a captured
// job posting. The synopsis is decorative: any failure here leaves the doc's
// summary nil and never blocks the pipeline.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-capture/internal/llm"
	"github.com/jonathan/job-capture/internal/types"
)

// maxSummaryInput bounds how much posting text is sent to the model.
const maxSummaryInput = 8000

// DefaultTimeout bounds a single summarization call. Summaries use the lite
// tier and should come back fast; anything slower is not worth waiting for.
const DefaultTimeout = 15 * time.Second

// Summarizer generates a posting synopsis. Implementations return an error
// instead of a degraded summary; callers treat errors as "no summary".
type Summarizer interface {
	Summarize(ctx context.Context, doc *types.SegmentedDocument, resolved *types.JobDoc) (string, error)
}

// GeminiSummarizer implements Summarizer against the Gemini client.
type GeminiSummarizer struct {
	client  Client
	timeout time.Duration
}

// Client is the subset of the LLM client the summarizer needs.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// New creates a summarizer over an LLM client.
func New(client Client, timeout time.Duration) *GeminiSummarizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiSummarizer{client: client, timeout: timeout}
}

// Summarize asks the lite model tier for a 2-3 sentence synopsis of the
// posting. The resolved doc seeds the prompt so the summary stays consistent
// with the structured fields.
func (s *GeminiSummarizer) Summarize(ctx context.Context, doc *types.SegmentedDocument, resolved *types.JobDoc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateContent(ctx, buildSummaryPrompt(doc, resolved), llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", fmt.Errorf("summarization returned empty output")
	}
	return summary, nil
}

// buildSummaryPrompt constructs the synopsis prompt.
func buildSummaryPrompt(doc *types.SegmentedDocument, resolved *types.JobDoc) string {
	var sb strings.Builder
	sb.WriteString("Write a 2-3 sentence summary of this job posting for a candidate deciding whether to read it.\n")
	sb.WriteString("Mention the role, the company if known, and the most distinctive requirements. Plain prose, no headings, no bullet points.\n\n")

	if resolved != nil {
		if resolved.Title != "" {
			sb.WriteString("Role: " + resolved.Title + "\n")
		}
		if resolved.Company != "" {
			sb.WriteString("Company: " + resolved.Company + "\n")
		}
		if resolved.Location != "" {
			sb.WriteString("Location: " + resolved.Location + "\n")
		}
		sb.WriteString("\n")
	}

	text := doc.FullText()
	if len(text) > maxSummaryInput {
		text = text[:maxSummaryInput]
	}
	sb.WriteString("Posting text:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
