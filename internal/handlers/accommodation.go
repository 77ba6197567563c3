package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type accommodationRepository interface {
	Create(ctx context.Context, a *models.Accommodation) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Accommodation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Accommodation, error)
	Update(ctx context.Context, a *models.Accommodation) error
	Delete(ctx context.Context, id uuid.UUID) error
	Select(ctx context.Context, id uuid.UUID) (*models.Accommodation, error)
}

type AccommodationHandler struct {
	repo accommodationRepository
}

func NewAccommodationHandler(repo accommodationRepository) *AccommodationHandler {
	return &AccommodationHandler{repo: repo}
}

func validateAccommodation(a *models.Accommodation) map[string]string {
	fields := map[string]string{}
	a.Name = strings.TrimSpace(a.Name)
	a.Dates = strings.TrimSpace(a.Dates)
	if a.Name == "" {
		fields["name"] = "Name is required"
	}
	if a.Dates == "" {
		fields["dates"] = "Dates are required"
	}
	if a.Stars < 0 || a.Stars > 5 {
		fields["stars"] = "Stars must be between 0 and 5"
	}
	validateCoords(fields, a.Lat, a.Lng)
	return fields
}

func validateCoords(fields map[string]string, lat, lng *float64) {
	if (lat == nil) != (lng == nil) {
		fields["lat"] = "Latitude and longitude go together"
		return
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		fields["lat"] = "Latitude must be between -90 and 90"
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		fields["lng"] = "Longitude must be between -180 and 180"
	}
}

func (h *AccommodationHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListByTrip(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accommodations": items})
}

func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var a models.Accommodation
	if !decodeBody(w, r, &a) || validationFailed(w, r, validateAccommodation(&a)) {
		return
	}
	a.TripID = tripID
	a.IsSelected = false

	if err := h.repo.Create(r.Context(), &a); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AccommodationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "accommodation")
	if !ok {
		return
	}
	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Accommodation")
		return
	}
	tripID, selected := a.TripID, a.IsSelected
	if !decodeBody(w, r, a) {
		return
	}
	a.ID, a.TripID, a.IsSelected = id, tripID, selected
	if validationFailed(w, r, validateAccommodation(a)) {
		return
	}

	if err := h.repo.Update(r.Context(), a); err != nil {
		handleRepoError(w, r, err, "Accommodation")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "accommodation")
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Accommodation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select marks the accommodation as the chosen stay for its base.
func (h *AccommodationHandler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "accommodation")
	if !ok {
		return
	}
	a, err := h.repo.Select(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Accommodation")
		return
	}
	writeJSON(w, http.StatusOK, a)
}
