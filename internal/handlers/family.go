package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type familyRepository interface {
	CreateMember(ctx context.Context, m *models.FamilyMember) error
	ListMembers(ctx context.Context, tripID uuid.UUID) ([]*models.FamilyMember, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error

	CreateTip(ctx context.Context, t *models.Tip) error
	ListTips(ctx context.Context, tripID uuid.UUID) ([]*models.Tip, error)
	DeleteTip(ctx context.Context, id uuid.UUID) error
}

// FamilyHandler serves the trip's travellers and its tips board.
type FamilyHandler struct {
	repo familyRepository
}

func NewFamilyHandler(repo familyRepository) *FamilyHandler {
	return &FamilyHandler{repo: repo}
}

func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListMembers(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": items})
}

func (h *FamilyHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var m models.FamilyMember
	if !decodeBody(w, r, &m) {
		return
	}
	fields := map[string]string{}
	m.Name, m.Color = strings.TrimSpace(m.Name), strings.TrimSpace(m.Color)
	if m.Name == "" {
		fields["name"] = "Name is required"
	}
	if m.Color == "" {
		fields["color"] = "Color is required"
	}
	if validationFailed(w, r, fields) {
		return
	}
	m.TripID = tripID

	if err := h.repo.CreateMember(r.Context(), &m); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *FamilyHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "member")
	if !ok {
		return
	}
	if err := h.repo.DeleteMember(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListTips(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tips": items})
}

func (h *FamilyHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var t models.Tip
	if !decodeBody(w, r, &t) {
		return
	}
	fields := map[string]string{}
	t.Icon, t.Text = strings.TrimSpace(t.Icon), strings.TrimSpace(t.Text)
	if t.Icon == "" {
		fields["icon"] = "Icon is required"
	}
	if t.Text == "" {
		fields["text"] = "Text is required"
	}
	if validationFailed(w, r, fields) {
		return
	}
	t.TripID = tripID

	if err := h.repo.CreateTip(r.Context(), &t); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *FamilyHandler) DeleteTip(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "tip")
	if !ok {
		return
	}
	if err := h.repo.DeleteTip(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Tip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
