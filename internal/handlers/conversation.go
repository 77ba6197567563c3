package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

const defaultConversationTitle = "שיחה חדשה"

type conversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddMessage(ctx context.Context, m *models.StoredMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.StoredMessage, error)
}

// ConversationHandler persists chat history. Streaming replies go through
// ChatHandler; clients store both sides of each exchange here.
type ConversationHandler struct {
	repo conversationRepository
}

func NewConversationHandler(repo conversationRepository) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListByTrip(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": items})
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var c models.Conversation
	if r.ContentLength != 0 && !decodeBody(w, r, &c) {
		return
	}
	c.TripID = tripID
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = defaultConversationTitle
	}

	if err := h.repo.Create(r.Context(), &c); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "conversation")
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "conversation")
	if !ok {
		return
	}
	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Conversation")
		return
	}
	msgs, err := h.repo.ListMessages(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *ConversationHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "conversation")
	if !ok {
		return
	}
	var m models.StoredMessage
	if !decodeBody(w, r, &m) {
		return
	}
	fields := map[string]string{}
	if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
		fields["role"] = "Role must be user or assistant"
	}
	if strings.TrimSpace(m.Content) == "" {
		fields["content"] = "Content is required"
	}
	if validationFailed(w, r, fields) {
		return
	}
	m.ConversationID = id

	if err := h.repo.AddMessage(r.Context(), &m); err != nil {
		handleRepoError(w, r, err, "Conversation")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
