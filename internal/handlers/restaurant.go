package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type restaurantRepository interface {
	Create(ctx context.Context, x *models.Restaurant) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Restaurant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Update(ctx context.Context, x *models.Restaurant) error
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleVisited(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

type RestaurantHandler struct {
	repo restaurantRepository
}

func NewRestaurantHandler(repo restaurantRepository) *RestaurantHandler {
	return &RestaurantHandler{repo: repo}
}

func validateRestaurant(x *models.Restaurant) map[string]string {
	fields := map[string]string{}
	x.Name = strings.TrimSpace(x.Name)
	if x.Name == "" {
		fields["name"] = "Name is required"
	}
	if x.Rating != nil && (*x.Rating < 0 || *x.Rating > 5) {
		fields["rating"] = "Rating must be between 0 and 5"
	}
	validateCoords(fields, x.Lat, x.Lng)
	return fields
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListByTrip(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if r.URL.Query().Get("kosher") == "true" {
		kosher := make([]*models.Restaurant, 0, len(items))
		for _, x := range items {
			if x.IsKosher {
				kosher = append(kosher, x)
			}
		}
		items = kosher
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": items})
}

func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var x models.Restaurant
	if !decodeBody(w, r, &x) || validationFailed(w, r, validateRestaurant(&x)) {
		return
	}
	x.TripID = tripID

	if err := h.repo.Create(r.Context(), &x); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, x)
}

func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "restaurant")
	if !ok {
		return
	}
	x, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Restaurant")
		return
	}
	tripID, visited := x.TripID, x.IsVisited
	if !decodeBody(w, r, x) {
		return
	}
	x.ID, x.TripID, x.IsVisited = id, tripID, visited
	if validationFailed(w, r, validateRestaurant(x)) {
		return
	}

	if err := h.repo.Update(r.Context(), x); err != nil {
		handleRepoError(w, r, err, "Restaurant")
		return
	}
	writeJSON(w, http.StatusOK, x)
}

func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "restaurant")
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Restaurant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RestaurantHandler) ToggleVisited(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "restaurant")
	if !ok {
		return
	}
	x, err := h.repo.ToggleVisited(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Restaurant")
		return
	}
	writeJSON(w, http.StatusOK, x)
}
