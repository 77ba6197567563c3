package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/relay"
)

const maxChatBody = 2 << 20

type chatRelay interface {
	Ready() error
	Relay(ctx context.Context, messages []models.ChatMessage, out relay.FrameWriter) error
}

type ChatHandler struct {
	relay chatRelay
}

func NewChatHandler(r chatRelay) *ChatHandler {
	return &ChatHandler{relay: r}
}

// Stream relays the conversation to the chat model and streams the reply
// back as server-sent events.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Messages == nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"messages": "messages must be an array"}, r))
		return
	}
	for i, m := range req.Messages {
		if !models.ValidChatRole(m.Role) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{fmt.Sprintf("messages[%d].role", i): "role must be user, assistant or system"}, r))
			return
		}
	}

	if err := h.relay.Ready(); err != nil {
		log.Error("chat relay unavailable", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("CONFIG_ERROR", "Chat is not configured", r))
		return
	}

	// Replies can outlive the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warn("could not clear write deadline", "err", err)
	}

	out := relay.NewSSEWriter(w)
	started := time.Now()
	err := h.relay.Relay(r.Context(), req.Messages, out)
	switch {
	case err == nil:
		log.Debug("chat reply streamed", "user", middleware.GetUserID(r.Context()), "elapsed", time.Since(started))
	case errors.Is(err, context.Canceled):
		log.Info("chat client disconnected", "user", middleware.GetUserID(r.Context()))
	default:
		log.Warn("chat reply failed", "user", middleware.GetUserID(r.Context()), "err", err)
	}
}
