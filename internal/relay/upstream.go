package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

var (
	ErrNotConfigured = errors.New("chat relay is not configured")
	ErrExhausted     = errors.New("all chat models failed")
)

// Request is one outbound completion attempt.
type Request struct {
	Model     string
	Messages  []models.ChatMessage
	MaxTokens int
}

// Upstream streams a completion, calling onDelta for every text fragment
// in arrival order. A nil return means the upstream signalled completion.
// Errors returned by onDelta must be passed back unchanged.
type Upstream interface {
	Stream(ctx context.Context, req Request, onDelta func(string) error) error
}

// UpstreamError is a failed attempt against one candidate.
type UpstreamError struct {
	Provider   string
	Model      string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s model %s: status %d: %s", e.Provider, e.Model, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s model %s: %s", e.Provider, e.Model, e.Message)
}

// IsRateLimited reports whether err is a rate-limit-class upstream failure.
func IsRateLimited(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.StatusCode == http.StatusTooManyRequests
}

// downstreamError marks a failure writing to the client, which ends the
// request without further frames.
type downstreamError struct{ err error }

func (e *downstreamError) Error() string { return "write to client: " + e.err.Error() }

func (e *downstreamError) Unwrap() error { return e.err }
