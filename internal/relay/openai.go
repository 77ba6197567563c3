package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// OpenAIUpstream talks to any OpenAI-compatible chat completions endpoint
// (OpenRouter, DeepSeek, OpenAI).
type OpenAIUpstream struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIUpstream(baseURL, apiKey string, httpClient *http.Client) *OpenAIUpstream {
	if httpClient == nil {
		// No client timeout: streams stay open as long as tokens arrive and
		// the request context lives.
		httpClient = &http.Client{}
	}
	return &OpenAIUpstream{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type completionRequest struct {
	Model     string               `json:"model"`
	Messages  []models.ChatMessage `json:"messages"`
	Stream    bool                 `json:"stream"`
	MaxTokens int                  `json:"max_tokens,omitempty"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Message string      `json:"message"`
	Code    interface{} `json:"code"`
}

func (b *apiErrorBody) status() int {
	if n, ok := b.Code.(float64); ok {
		return int(n)
	}
	return 0
}

func (u *OpenAIUpstream) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	body, err := json.Marshal(completionRequest{
		Model:     req.Model,
		Messages:  req.Messages,
		Stream:    true,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return u.fail(req.Model, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return u.fail(req.Model, resp.StatusCode, errorMessage(raw))
	}

	return u.readEvents(req.Model, resp.Body, onDelta)
}

// readEvents consumes "data: <json>" lines until [DONE] or EOF. Lines that
// are not valid JSON are skipped.
func (u *OpenAIUpstream) readEvents(model string, r io.Reader, onDelta func(string) error) error {
	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadBytes('\n')

		line = bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(data)
			if bytes.Equal(data, []byte("[DONE]")) {
				return nil
			}

			var chunk completionChunk
			if err := json.Unmarshal(data, &chunk); err == nil {
				if chunk.Error != nil {
					return u.fail(model, chunk.Error.status(), chunk.Error.Message)
				}
				if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
					if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
						return err
					}
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return u.fail(model, 0, "read stream: "+readErr.Error())
		}
	}
}

func (u *OpenAIUpstream) fail(model string, status int, msg string) error {
	return &UpstreamError{Provider: ProviderOpenAI, Model: model, StatusCode: status, Message: msg}
}

func errorMessage(raw []byte) string {
	var body struct {
		Error *apiErrorBody `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != nil && body.Error.Message != "" {
		return body.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
