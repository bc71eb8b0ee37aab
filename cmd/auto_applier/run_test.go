package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/auto-applier/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		first string
		last  string
	}{
		{"empty", "", "", ""},
		{"single", "Alex", "Alex", ""},
		{"two parts", "Alex Rivera", "Alex", "Rivera"},
		{"three parts", "Mary Jane Watson", "Mary", "Jane Watson"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitName(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestResolveProfile_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	content := `{
		"email": "dev@example.com",
		"first_name": "Alex",
		"last_name": "Rivera",
		"phone": "555-0100",
		"resume": {"skills": ["Go"]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prof, err := resolveProfile(path, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", prof.Email)
	assert.Equal(t, "Alex", prof.FirstName)
	assert.Equal(t, []string{"Go"}, prof.Resume.Skills)
}

func TestResolveProfile_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email": "dev@example.com"}`), 0o644))

	_, err := resolveProfile(path, &config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestResolveProfile_MissingFile(t *testing.T) {
	_, err := resolveProfile("/nonexistent/profile.json", &config.Config{})
	assert.Error(t, err)
}

func TestResolveProfile_InlineFallback(t *testing.T) {
	cfg := &config.Config{
		Name:  "Alex Rivera",
		Email: "dev@example.com",
		Phone: "555-0100",
	}

	prof, err := resolveProfile("", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Alex", prof.FirstName)
	assert.Equal(t, "Rivera", prof.LastName)
	assert.Equal(t, "dev@example.com", prof.Email)
}

func TestResolveProfile_RequiresEmail(t *testing.T) {
	_, err := resolveProfile("", &config.Config{Name: "Alex Rivera"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email")
}
