// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or the environment.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Backends
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisAddr   string `json:"redis_addr,omitempty"`   // Redis address for the shared existence cache
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Extraction
	ThousandsBound int `json:"thousands_bound,omitempty"` // salary "in thousands" heuristic bound

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed capture output
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ThousandsBound < 0 {
		return fmt.Errorf("config error: 'thousands_bound' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ThousandsBound == 0 {
		result.ThousandsBound = defaults.ThousandsBound
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
