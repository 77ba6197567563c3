package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type tripRepository interface {
	Create(ctx context.Context, t *models.Trip) error
	List(ctx context.Context) ([]*models.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	Update(ctx context.Context, t *models.Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TripHandler struct {
	repo tripRepository
}

func NewTripHandler(repo tripRepository) *TripHandler {
	return &TripHandler{repo: repo}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validateTrip(t *models.Trip) map[string]string {
	fields := map[string]string{}
	t.Name = strings.TrimSpace(t.Name)
	t.Destination = strings.TrimSpace(t.Destination)
	if t.Name == "" {
		fields["name"] = "Name is required"
	}
	if t.Destination == "" {
		fields["destination"] = "Destination is required"
	}
	if !validDate(t.StartDate) {
		fields["start_date"] = "Use YYYY-MM-DD"
	}
	if !validDate(t.EndDate) {
		fields["end_date"] = "Use YYYY-MM-DD"
	}
	if len(fields) == 0 && t.EndDate < t.StartDate {
		fields["end_date"] = "End date must not be before start date"
	}
	return fields
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trips": trips})
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t models.Trip
	if !decodeBody(w, r, &t) || validationFailed(w, r, validateTrip(&t)) {
		return
	}
	t.CreatedBy = middleware.GetUserID(r.Context())

	if err := h.repo.Create(r.Context(), &t); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update applies the fields present in the body over the stored trip.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	createdBy, createdAt := t.CreatedBy, t.CreatedAt
	if !decodeBody(w, r, t) {
		return
	}
	t.ID, t.CreatedBy, t.CreatedAt = id, createdBy, createdAt
	if validationFailed(w, r, validateTrip(t)) {
		return
	}

	if err := h.repo.Update(r.Context(), t); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
