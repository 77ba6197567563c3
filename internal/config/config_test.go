package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/relay"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trip")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.Equal(t, []string{"openrouter/auto", "deepseek/deepseek-chat"}, cfg.ChatModels)
	assert.Equal(t, time.Second, cfg.ChatRateLimitDelay)
	assert.Equal(t, 1, cfg.ChatRateLimitRetries)
	assert.Equal(t, 2048, cfg.ChatMaxTokens)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, "./uploads", cfg.StoragePath)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_BlankRequiredValues(t *testing.T) {
	for _, name := range []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET"} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "   ")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_MaxTokensBounds(t *testing.T) {
	for _, value := range []string{"0", "-5", "3000000000"} {
		t.Run(value, func(t *testing.T) {
			setRequired(t)
			t.Setenv("CHAT_MAX_TOKENS", value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CHAT_MAX_TOKENS")
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CHAT_MODELS", "gemini:gemini-1.5-flash,openrouter/auto")
	t.Setenv("CHAT_RATE_LIMIT_DELAY", "250ms")
	t.Setenv("CHAT_RATE_LIMIT_RETRIES", "0")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())

	rc := cfg.RelayConfig("prompt")
	assert.Equal(t, "prompt", rc.SystemPrompt)
	assert.Equal(t, 250*time.Millisecond, rc.RateLimitDelay)
	require.Len(t, rc.Candidates, 2)
	assert.Equal(t, relay.Candidate{Provider: relay.ProviderGemini, Model: "gemini-1.5-flash", Policy: relay.TryOnce}, rc.Candidates[0])
	assert.Equal(t, relay.ProviderOpenAI, rc.Candidates[1].Provider)
}

func TestLoad_RejectsNegativeRetries(t *testing.T) {
	setRequired(t)
	t.Setenv("CHAT_RATE_LIMIT_RETRIES", "-1")

	_, err := Load()
	assert.Error(t, err)
}
