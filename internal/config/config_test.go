package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"user_id": "550e8400-e29b-41d4-a716-446655440000",
		"keywords": "golang developer",
		"location": "Remote",
		"platform": "linkedin",
		"max_applications": 10,
		"only_easy_apply": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", cfg.UserID)
	assert.Equal(t, "golang developer", cfg.Keywords)
	assert.Equal(t, "Remote", cfg.Location)
	assert.Equal(t, "linkedin", cfg.Platform)
	assert.Equal(t, 10, cfg.MaxApplications)
	assert.True(t, cfg.OnlyEasyApply)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_BadDateRange(t *testing.T) {
	cfg := &Config{DateRange: "fortnight"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_range")
}

func TestValidate_BadExperienceLevel(t *testing.T) {
	cfg := &Config{ExperienceLevel: "wizard"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "experience_level")
}

func TestValidate_UnknownPlatform(t *testing.T) {
	cfg := &Config{Platform: "craigslist"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown platform")
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{MaxApplications: -1}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_applications")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Keywords:        "golang",
		Platform:        "linkedin",
		DateRange:       "week",
		ExperienceLevel: "mid",
		JobType:         "fulltime",
		MaxApplications: 10,
		DelaySeconds:    30,
	}

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Keywords:        "golang",
		Email:           "default@example.com",
		Platform:        "linkedin",
		MaxApplications: 10,
		DelaySeconds:    45,
	}

	partial := Config{
		Keywords: "rust developer",
		UserID:   "custom-user-id",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "rust developer", merged.Keywords)
	assert.Equal(t, "custom-user-id", merged.UserID)

	// Default values should fill in empty fields
	assert.Equal(t, "default@example.com", merged.Email)
	assert.Equal(t, "linkedin", merged.Platform)
	assert.Equal(t, 10, merged.MaxApplications)
	assert.Equal(t, 45, merged.DelaySeconds)
}

func TestMergeWithDefaults_FallbackQuota(t *testing.T) {
	empty := Config{}
	merged := empty.MergeWithDefaults(Config{})

	assert.Equal(t, 5, merged.MaxApplications)
	assert.Equal(t, 30, merged.DelaySeconds)
}
