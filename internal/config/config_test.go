package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "ARK_MODEL", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_TEMPERATURE",
		"GRACE_ENDPOINT", "GRACE_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://grace-ai-backend-ShawnBeck.replit.app/api/chat", cfg.Client.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.AI.Temperature)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("ARK_API_KEY", "secret")
	t.Setenv("ARK_TEMPERATURE", "0.4")
	t.Setenv("ARK_MAX_TOKENS", "512")
	t.Setenv("GRACE_ENDPOINT", "http://localhost:8080/api/chat")
	t.Setenv("GRACE_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.4, *cfg.AI.Temperature, 0.0001)
	require.NotNil(t, cfg.AI.MaxTokens)
	assert.Equal(t, 512, *cfg.AI.MaxTokens)
	assert.Equal(t, "http://localhost:8080/api/chat", cfg.Client.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadIgnoresUnprefixedVariables(t *testing.T) {
	unsetEnv(t, "ARK_MODEL", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY",
		"GRACE_ENDPOINT", "GRACE_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT")
	t.Setenv("MODEL", "unrelated-model")
	t.Setenv("API_KEY", "unrelated-secret")
	t.Setenv("ENDPOINT", "http://elsewhere.example")
	t.Setenv("TIMEOUT", "5")
	t.Setenv("LEVEL", "debug")
	t.Setenv("FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.AI.Model)
	assert.Empty(t, cfg.AI.APIKey)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, "https://grace-ai-backend-ShawnBeck.replit.app/api/chat", cfg.Client.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GRACE_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestNormalizeAddr(t *testing.T) {
	tests := map[string]string{
		"":          ":8080",
		"9090":      ":9090",
		":7000":     ":7000",
		"0.0.0.0:1": "0.0.0.0:1",
	}
	for in, want := range tests {
		got, err := normalizeAddr(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := normalizeAddr("80 80")
	assert.Error(t, err)
}

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := AIConfig{Model: "doubao-pro"}.NewChatModel(context.Background())
	assert.ErrorIs(t, err, ErrAICredentialsMissing)
}

func TestAIConfigEnabledWithAccessKeyPair(t *testing.T) {
	assert.True(t, AIConfig{Model: "m", AccessKey: "ak", SecretKey: "sk"}.Enabled())
	assert.False(t, AIConfig{Model: "m", AccessKey: "ak"}.Enabled())
}
