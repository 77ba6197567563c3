package tripchat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/relay"
)

// ErrChatFailed reports an error frame or a stream that ended without done.
var ErrChatFailed = errors.New("chat failed")

// Client talks to a Family Navigator server as one signed-in user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var tokens models.AuthTokens
	if err := c.postJSON(ctx, "/api/v1/auth/login", models.LoginRequest{Email: email, Password: password}, &tokens); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.token = tokens.AccessToken
	return nil
}

// Chat posts the conversation and calls onDelta for each content frame. It
// returns the full reply once the done frame arrives.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, error) {
	body, err := json.Marshal(models.ChatRequest{Messages: messages})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/chat", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var reply strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var f relay.Frame
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			continue
		}
		switch {
		case f.Error != "":
			return reply.String(), fmt.Errorf("%w: %s", ErrChatFailed, f.Error)
		case f.Done:
			return reply.String(), nil
		case f.Content != "":
			reply.WriteString(f.Content)
			if onDelta != nil {
				onDelta(f.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return reply.String(), err
	}
	return reply.String(), fmt.Errorf("%w: stream ended early", ErrChatFailed)
}

// SaveMessage appends one turn to a stored conversation.
func (c *Client) SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) error {
	path := "/api/v1/conversations/" + conversationID.String() + "/messages"
	return c.postJSON(ctx, path, map[string]string{"role": role, "content": content}, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	var e models.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error.Message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
