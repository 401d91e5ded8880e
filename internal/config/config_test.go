package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_ENV_PATH", "STORAGE_BACKEND", "AUTH_JWT_SECRET", "AUTH_DISABLED", "MYSQL_DSN",
		"REDIS_ADDR", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET",
		"HTTP_TIMEOUT_SECONDS", "LLM_BASE_URL", "LLM_TEMPERATURE", "STORY_STYLE", "LLM_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://ai.gateway.lovable.dev", cfg.LLMBaseURL)
	assert.Equal(t, "google/gemini-3-flash-preview", cfg.LLMModel)
	assert.Equal(t, 1500, cfg.LLMMaxTokens)
	assert.InDelta(t, 0.9, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, "literario", cfg.StoryStyle)
	assert.Equal(t, time.Hour, cfg.DailyTickInterval)
	assert.False(t, cfg.WriterEnabled())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Run("jwt secret", func(t *testing.T) {
		clearEnv(t)
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
	})

	t.Run("auth disabled skips secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUTH_DISABLED", "true")
		_, err := Load()
		require.NoError(t, err)
	})

	t.Run("mysql dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUTH_DISABLED", "true")
		t.Setenv("STORAGE_BACKEND", "mysql")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MYSQL_DSN")
	})

	t.Run("s3 keys", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUTH_DISABLED", "true")
		t.Setenv("STORAGE_BACKEND", "S3")
		t.Setenv("S3_REGION", "eu-west-1")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET")
		assert.NotContains(t, err.Error(), "S3_REGION")
	})

	t.Run("unknown backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUTH_DISABLED", "true")
		t.Setenv("STORAGE_BACKEND", "sqlite")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_JWT_SECRET=from-file\nSTORY_STYLE=poetico\n"), 0o600))
	t.Setenv("CONFIG_ENV_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AuthJWTSecret)
	assert.Equal(t, "poetico", cfg.StoryStyle)
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "https://fallback"},
		{"gateway.example", "https://gateway.example"},
		{"http://localhost:9000/", "http://localhost:9000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeBaseURL(tc.in, "https://fallback"), tc.in)
	}
}

func TestGetHelpersFallback(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_FLOAT", "1.5")
	assert.Equal(t, 7, getInt("X_INT", 7))
	assert.True(t, getBool("X_BOOL", true))
	assert.InDelta(t, 1.5, getFloat("X_FLOAT", 0), 1e-9)
}
