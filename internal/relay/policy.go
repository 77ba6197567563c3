package relay

import (
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// AttemptPolicy decides what happens to a candidate after a rate-limit
// failure.
type AttemptPolicy int

const (
	// TryOnce advances to the next candidate after the rate-limit delay.
	TryOnce AttemptPolicy = iota
	// RetryAfterDelay retries the same candidate up to Candidate.Retries
	// times before advancing.
	RetryAfterDelay
)

// Candidate is one upstream model in the fallback order.
type Candidate struct {
	Provider string
	Model    string
	Policy   AttemptPolicy
	Retries  int
}

func (c Candidate) attempts() int {
	if c.Policy == RetryAfterDelay && c.Retries > 0 {
		return 1 + c.Retries
	}
	return 1
}

func (c Candidate) String() string {
	return c.Provider + ":" + c.Model
}

// Config is everything the relay needs; it is never read from the process
// environment by this package.
type Config struct {
	SystemPrompt   string
	Candidates     []Candidate
	RateLimitDelay time.Duration
	MaxTokens      int
}

// ParseCandidates turns "model" or "provider:model" entries into candidates.
// An entry without a known provider prefix belongs to the OpenAI-compatible
// provider, so OpenRouter ids such as "openrouter/auto" work unchanged.
func ParseCandidates(entries []string, retries int) []Candidate {
	policy := TryOnce
	if retries > 0 {
		policy = RetryAfterDelay
	}

	out := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		c := Candidate{Provider: ProviderOpenAI, Model: entry, Policy: policy, Retries: retries}
		if prefix, model, ok := strings.Cut(entry, ":"); ok {
			switch prefix {
			case ProviderOpenAI, ProviderGemini:
				c.Provider = prefix
				c.Model = model
			}
		}
		out = append(out, c)
	}
	return out
}
