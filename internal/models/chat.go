package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant" | "system"
	Content string `json:"content"`
}

// ValidChatRole reports whether role may appear in a chat request.
func ValidChatRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatRequest is the payload sent to the chat endpoint. Messages is nil when
// the field is missing or null, and empty (non-nil) for [].
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Conversation groups stored chat history for a trip.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredMessage is a persisted chat turn.
type StoredMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
