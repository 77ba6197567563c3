package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type attractionRepository interface {
	Create(ctx context.Context, a *models.Attraction) error
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]*models.Attraction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attraction, error)
	Update(ctx context.Context, a *models.Attraction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AttractionHandler struct {
	repo attractionRepository
}

func NewAttractionHandler(repo attractionRepository) *AttractionHandler {
	return &AttractionHandler{repo: repo}
}

func validateAttraction(a *models.Attraction) map[string]string {
	fields := map[string]string{}
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		fields["name"] = "Name is required"
	}
	badges := make([]string, 0, len(a.Badges))
	for _, b := range a.Badges {
		if b = strings.TrimSpace(b); b != "" {
			badges = append(badges, b)
		}
	}
	a.Badges = badges
	validateCoords(fields, a.Lat, a.Lng)
	return fields
}

func (h *AttractionHandler) List(w http.ResponseWriter, r *http.Request) {
	dayID, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	items, err := h.repo.ListByDay(r.Context(), dayID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attractions": items})
}

func (h *AttractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	dayID, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	var a models.Attraction
	if !decodeBody(w, r, &a) || validationFailed(w, r, validateAttraction(&a)) {
		return
	}
	a.DayID = dayID

	if err := h.repo.Create(r.Context(), &a); err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttractionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "attraction")
	if !ok {
		return
	}
	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Attraction")
		return
	}
	dayID := a.DayID
	if !decodeBody(w, r, a) {
		return
	}
	a.ID, a.DayID = id, dayID
	if validationFailed(w, r, validateAttraction(a)) {
		return
	}

	if err := h.repo.Update(r.Context(), a); err != nil {
		handleRepoError(w, r, err, "Attraction")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AttractionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "attraction")
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Attraction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
