package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "BASE_URL", "CACHE_TTL", "MAX_RETRIES", "RETRY_BASE", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryBase)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("BASE_URL", "")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", " key ")
	t.Setenv("IMAGE_API_URL", "https://images.example.com/v1/")
	t.Setenv("EXPORT_PROFILE", "profiles/print.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "https://images.example.com/v1", cfg.ImageAPIURL)
	assert.Equal(t, "profiles/print.yaml", cfg.ProfilePath)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "")
	t.Setenv("MAX_RETRIES", "-1")
	_, err = Load()
	assert.Error(t, err)
}
