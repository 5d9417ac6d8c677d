// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Requirements string `json:"requirements,omitempty"` // Path to requirement set JSON file
	Output       string `json:"output,omitempty"`       // Path to write the run report JSON

	// API access
	APIBaseURL string `json:"api_base_url,omitempty"` // People-search service base URL
	APIKey     string `json:"api_key,omitempty"`      // Bearer key; PEOPLEDB_API_KEY overrides

	// Budgets
	TargetCount int `json:"target_count,omitempty"` // Candidates to gather before stopping
	CreditsCap  int `json:"credits_cap,omitempty"`  // Hard credit ceiling for the run
	PageLimit   int `json:"page_limit,omitempty"`   // Records per page (max 200)

	// Behavior
	PhaseTimeoutSeconds int  `json:"phase_timeout_seconds,omitempty"` // Per-phase deadline
	Verbose             bool `json:"verbose,omitempty"`               // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'api_base_url' is not a valid URL: %s", c.APIBaseURL)
		}
	}

	if c.TargetCount < 0 {
		return fmt.Errorf("config error: 'target_count' must be non-negative")
	}
	if c.CreditsCap < 0 {
		return fmt.Errorf("config error: 'credits_cap' must be non-negative")
	}
	if c.PageLimit < 0 || c.PageLimit > 200 {
		return fmt.Errorf("config error: 'page_limit' must be between 0 and 200")
	}
	if c.PhaseTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'phase_timeout_seconds' must be non-negative")
	}

	if c.Requirements != "" {
		if _, err := os.Stat(c.Requirements); os.IsNotExist(err) {
			return fmt.Errorf("config error: requirements file not found: %s", c.Requirements)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Requirements == "" {
		result.Requirements = defaults.Requirements
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.TargetCount == 0 {
		result.TargetCount = defaults.TargetCount
	}
	if result.CreditsCap == 0 {
		result.CreditsCap = defaults.CreditsCap
	}
	if result.PageLimit == 0 {
		result.PageLimit = defaults.PageLimit
	}
	if result.PhaseTimeoutSeconds == 0 {
		result.PhaseTimeoutSeconds = defaults.PhaseTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
