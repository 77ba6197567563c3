package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/itaymdigi/Family-Navigator/internal/relay"
)

type Config struct {
	// Server
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Redis
	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	// JWT
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Chat
	OpenRouterAPIKey     string        `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL    string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	GeminiAPIKey         string        `envconfig:"GEMINI_API_KEY"`
	ChatModels           []string      `envconfig:"CHAT_MODELS" default:"openrouter/auto,deepseek/deepseek-chat"`
	ChatRateLimitDelay   time.Duration `envconfig:"CHAT_RATE_LIMIT_DELAY" default:"1s"`
	ChatRateLimitRetries int           `envconfig:"CHAT_RATE_LIMIT_RETRIES" default:"1"`
	ChatMaxTokens        int           `envconfig:"CHAT_MAX_TOKENS" default:"2048"`
	ChatSystemPromptFile string        `envconfig:"CHAT_SYSTEM_PROMPT_FILE"`

	// Storage
	StoragePath string `envconfig:"STORAGE_PATH" default:"./uploads"`

	// Workers
	WorkerCount    int    `envconfig:"WORKER_COUNT" default:"3"`
	WeatherBaseURL string `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com/v1"`

	// Frontend
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	// required only checks presence; an empty value from a .env template
	// must fail here too.
	for name, value := range map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
		"JWT_SECRET":   cfg.JWTSecret,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("required environment variable %s is empty", name)
		}
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	if cfg.ChatRateLimitRetries < 0 {
		return nil, fmt.Errorf("CHAT_RATE_LIMIT_RETRIES must not be negative")
	}
	if cfg.ChatMaxTokens < 1 || cfg.ChatMaxTokens > math.MaxInt32 {
		return nil, fmt.Errorf("CHAT_MAX_TOKENS must be between 1 and %d", math.MaxInt32)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ChatCandidates returns the configured fallback order for the chat relay.
func (c *Config) ChatCandidates() []relay.Candidate {
	return relay.ParseCandidates(c.ChatModels, c.ChatRateLimitRetries)
}

// RelayConfig assembles the relay settings around an already loaded prompt.
func (c *Config) RelayConfig(systemPrompt string) relay.Config {
	return relay.Config{
		SystemPrompt:   systemPrompt,
		Candidates:     c.ChatCandidates(),
		RateLimitDelay: c.ChatRateLimitDelay,
		MaxTokens:      c.ChatMaxTokens,
	}
}
