// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/auto-applier/internal/types"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Search
	Keywords        string `json:"keywords,omitempty"`         // Job search keywords
	Location        string `json:"location,omitempty"`         // Job search location
	DateRange       string `json:"date_range,omitempty"`       // day, week, month
	ExperienceLevel string `json:"experience_level,omitempty"` // entry, mid, senior
	JobType         string `json:"job_type,omitempty"`         // fulltime, parttime, contract
	Platform        string `json:"platform,omitempty"`         // Job board to run against

	// Candidate Info
	UserID string `json:"user_id,omitempty"` // User UUID (required for DB-backed history)
	Name   string `json:"name,omitempty"`    // Candidate name
	Email  string `json:"email,omitempty"`   // Candidate email, also the platform login identity
	Phone  string `json:"phone,omitempty"`   // Candidate phone

	// Apply policy
	MaxApplications int  `json:"max_applications,omitempty"` // Quota of attempts per run
	OnlyEasyApply   bool `json:"only_easy_apply,omitempty"`  // Skip listings without in-page apply
	SkipApplied     bool `json:"skip_applied,omitempty"`     // Dedup against prior submissions
	DelaySeconds    int  `json:"delay_seconds,omitempty"`    // Base inter-application delay

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for cover letter polish
	SessionDir  string `json:"session_dir,omitempty"`  // Directory for persisted login sessions
	Headless    bool   `json:"headless,omitempty"`     // Run the browser headless
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
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
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.DateRange {
	case "", "day", "week", "month":
	default:
		return fmt.Errorf("config error: 'date_range' must be day, week, or month")
	}

	switch c.ExperienceLevel {
	case "", "entry", "mid", "senior":
	default:
		return fmt.Errorf("config error: 'experience_level' must be entry, mid, or senior")
	}

	switch c.JobType {
	case "", "fulltime", "parttime", "contract":
	default:
		return fmt.Errorf("config error: 'job_type' must be fulltime, parttime, or contract")
	}

	if c.Platform != "" {
		if _, ok := types.ParsePlatform(c.Platform); !ok {
			return fmt.Errorf("config error: unknown platform %q (known: %v)", c.Platform, types.KnownPlatforms())
		}
	}

	if c.MaxApplications < 0 {
		return fmt.Errorf("config error: 'max_applications' must be non-negative")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("config error: 'delay_seconds' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Keywords == "" {
		result.Keywords = defaults.Keywords
	}
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if result.DateRange == "" {
		result.DateRange = defaults.DateRange
	}
	if result.ExperienceLevel == "" {
		result.ExperienceLevel = defaults.ExperienceLevel
	}
	if result.JobType == "" {
		result.JobType = defaults.JobType
	}
	if result.Platform == "" {
		result.Platform = defaults.Platform
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.Name == "" {
		result.Name = defaults.Name
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}
	if result.Phone == "" {
		result.Phone = defaults.Phone
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SessionDir == "" {
		result.SessionDir = defaults.SessionDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxApplications == 0 {
		if defaults.MaxApplications > 0 {
			result.MaxApplications = defaults.MaxApplications
		} else {
			result.MaxApplications = 5 // Human-paced daily batch size
		}
	}
	if result.DelaySeconds == 0 {
		if defaults.DelaySeconds > 0 {
			result.DelaySeconds = defaults.DelaySeconds
		} else {
			result.DelaySeconds = 30
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
