package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig(t *testing.T) *PasswordConfig {
	t.Helper()
	// Minimum allowed cost keeps the hashing tests fast
	return &PasswordConfig{BcryptCost: 10}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig(t)

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	cfg := testPasswordConfig(t)

	h1, err := cfg.HashPassword("same password")
	require.NoError(t, err)
	h2, err := cfg.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_WithPepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "global-secret"}

	hash, err := peppered.HashPassword("pw")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("pw", hash))

	// A config without the pepper cannot verify peppered hashes
	plain := testPasswordConfig(t)
	assert.False(t, plain.VerifyPassword("pw", hash))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cfg := testPasswordConfig(t)
	assert.False(t, cfg.VerifyPassword("pw", "not-a-bcrypt-hash"))
}

func TestNewPasswordConfig_FromEnv(t *testing.T) {
	t.Setenv("BCRYPT_COST", "11")
	t.Setenv("PASSWORD_PEPPER", "pepper-value")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.Equal(t, "pepper-value", cfg.Pepper)
}

func TestNewPasswordConfig_DefaultCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestNewPasswordConfig_CostOutOfRange(t *testing.T) {
	for _, cost := range []string{"9", "15"} {
		t.Setenv("BCRYPT_COST", cost)
		_, err := NewPasswordConfig()
		assert.Error(t, err, "cost %s must be rejected", cost)
	}
}

func TestNewPasswordConfig_InvalidCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "cheap")
	_, err := NewPasswordConfig()
	assert.Error(t, err)
}
