package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Frame is one unit of the downstream event stream. Exactly one of the
// fields is set.
type Frame struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ContentFrame(text string) Frame { return Frame{Content: text} }

func DoneFrame() Frame { return Frame{Done: true} }

func ErrorFrame(message string) Frame {
	if message == "" {
		message = "chat failed"
	}
	return Frame{Error: message}
}

// FrameWriter receives frames in emission order.
type FrameWriter interface {
	WriteFrame(f Frame) error
}

// SSEWriter frames each Frame as "data: <json>\n\n" and flushes it
// immediately.
type SSEWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

// NewSSEWriter commits the response to text/event-stream. Nothing else may be
// written to w afterwards except through the returned writer.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	s := &SSEWriter{w: w, rc: http.NewResponseController(w)}
	s.flush()
	return s
}

func (s *SSEWriter) WriteFrame(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return s.flush()
}

func (s *SSEWriter) flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
