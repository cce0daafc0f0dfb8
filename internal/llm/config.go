// Package llm provides the LLM client abstraction and the model-assisted
// structured extractor that fills fields the rule-based parser could not
// resolve.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short summaries
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured extraction
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTimeout bounds a single model call. The extractor is the only
// pipeline stage that suspends on the network, so this is the pipeline's
// worst-case stall.
const DefaultTimeout = 25 * time.Second

// Config holds the model configuration
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	Timeout  time.Duration
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Timeout: DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier, falling back to the
// lite tier when the requested one is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
