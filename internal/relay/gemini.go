package relay

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// GeminiUpstream streams completions from Google Gemini chat sessions.
type GeminiUpstream struct {
	client *genai.Client
}

func NewGeminiUpstream(client *genai.Client) *GeminiUpstream {
	return &GeminiUpstream{client: client}
}

func (u *GeminiUpstream) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	system, history := geminiTurns(req.Messages)
	if len(history) == 0 {
		return &UpstreamError{Provider: ProviderGemini, Model: req.Model, Message: "conversation has no turns"}
	}
	// SendMessageStream always sends as the user role.
	last := history[len(history)-1]
	if last.Role != "user" {
		return &UpstreamError{Provider: ProviderGemini, Model: req.Model, StatusCode: http.StatusBadRequest, Message: "conversation must end with a user turn"}
	}

	model := u.client.GenerativeModel(req.Model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(min(req.MaxTokens, math.MaxInt32)))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	cs := model.StartChat()
	cs.History = history[:len(history)-1]

	iter := cs.SendMessageStream(ctx, last.Parts...)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return geminiError(req.Model, err)
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok && text != "" {
				if err := onDelta(string(text)); err != nil {
					return err
				}
			}
		}
	}
}

// geminiTurns maps chat messages onto Gemini's shape: system turns become the
// system instruction, assistant turns use the "model" role. Order within
// each group is preserved.
func geminiTurns(messages []models.ChatMessage) ([]genai.Part, []*genai.Content) {
	var system []genai.Part
	var history []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			system = append(system, genai.Text(m.Content))
		case models.RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	return system, history
}

func geminiError(model string, err error) error {
	upErr := &UpstreamError{Provider: ProviderGemini, Model: model, Message: err.Error()}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		upErr.StatusCode = gErr.Code
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		upErr.StatusCode = http.StatusTooManyRequests
	}
	return upErr
}
