package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// Relay forwards a conversation to the first available candidate model and
// re-frames its token stream for the client. It holds no per-request state
// and is safe for concurrent use.
type Relay struct {
	cfg        Config
	upstreams  map[string]Upstream
	candidates []Candidate
	wait       func(ctx context.Context, d time.Duration) error
}

// New builds a relay. Candidates whose provider has no registered upstream
// (usually a missing API key) are dropped; if none remain, Ready reports
// ErrNotConfigured.
func New(cfg Config, upstreams map[string]Upstream) *Relay {
	r := &Relay{
		cfg:       cfg,
		upstreams: upstreams,
		wait:      sleepContext,
	}
	for _, c := range cfg.Candidates {
		if upstreams[c.Provider] == nil {
			log.Warn("chat candidate skipped, provider not configured", "candidate", c.String())
			continue
		}
		r.candidates = append(r.candidates, c)
	}
	return r
}

// Ready returns ErrNotConfigured when no candidate can be called.
func (r *Relay) Ready() error {
	if r == nil || len(r.candidates) == 0 {
		return ErrNotConfigured
	}
	return nil
}

// Candidates returns the usable fallback order.
func (r *Relay) Candidates() []Candidate {
	return append([]Candidate(nil), r.candidates...)
}

// Relay streams a reply to messages into out. It always finishes with one
// terminal frame (done or error) unless ctx is cancelled or out fails, in
// which case the client is gone and the error is returned as is.
func (r *Relay) Relay(ctx context.Context, messages []models.ChatMessage, out FrameWriter) error {
	if err := r.Ready(); err != nil {
		return err
	}

	payload := r.payload(messages)
	var lastErr error

	for i, c := range r.candidates {
		up := r.upstreams[c.Provider]
		attempts := c.attempts()

		for attempt := 1; attempt <= attempts; attempt++ {
			emitted := 0
			err := up.Stream(ctx, Request{Model: c.Model, Messages: payload, MaxTokens: r.cfg.MaxTokens}, func(delta string) error {
				if delta == "" {
					return nil
				}
				if err := out.WriteFrame(ContentFrame(delta)); err != nil {
					return &downstreamError{err: err}
				}
				emitted++
				return nil
			})
			if err == nil {
				if err := out.WriteFrame(DoneFrame()); err != nil {
					return &downstreamError{err: err}
				}
				return nil
			}

			var dErr *downstreamError
			if errors.As(err, &dErr) {
				return dErr
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			// Tokens already reached the client; a fallback would replay them.
			if emitted > 0 {
				log.Warn("chat stream failed mid-response", "candidate", c.String(), "emitted", emitted, "err", err)
				if wErr := out.WriteFrame(ErrorFrame(err.Error())); wErr != nil {
					return &downstreamError{err: wErr}
				}
				return err
			}

			lastErr = err
			log.Warn("chat candidate failed", "candidate", c.String(), "attempt", attempt, "err", err)

			if !IsRateLimited(err) {
				break
			}
			if i == len(r.candidates)-1 && attempt == attempts {
				break
			}
			if err := r.wait(ctx, r.cfg.RateLimitDelay); err != nil {
				return err
			}
		}
	}

	if err := out.WriteFrame(ErrorFrame(exhaustedMessage(lastErr))); err != nil {
		return &downstreamError{err: err}
	}
	return fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

// payload prepends the system prompt without touching the caller's slice.
func (r *Relay) payload(messages []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(messages)+1)
	out = append(out, models.ChatMessage{Role: models.RoleSystem, Content: r.cfg.SystemPrompt})
	return append(out, messages...)
}

func exhaustedMessage(lastErr error) string {
	if lastErr == nil {
		return ErrExhausted.Error()
	}
	return ErrExhausted.Error() + ": " + lastErr.Error()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
