package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type placeRepository interface {
	CreateLocation(ctx context.Context, l *models.MapLocation) error
	ListLocations(ctx context.Context, tripID uuid.UUID) ([]*models.MapLocation, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	CreateDocument(ctx context.Context, d *models.TravelDocument) error
	ListDocuments(ctx context.Context, tripID uuid.UUID) ([]*models.TravelDocument, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*models.TravelDocument, error)
	UpdateDocument(ctx context.Context, d *models.TravelDocument) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// PlaceHandler serves map pins and travel documents.
type PlaceHandler struct {
	repo placeRepository
}

func NewPlaceHandler(repo placeRepository) *PlaceHandler {
	return &PlaceHandler{repo: repo}
}

func (h *PlaceHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListLocations(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if dayParam := r.URL.Query().Get("day_id"); dayParam != "" {
		dayID, err := uuid.Parse(dayParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid day ID", r))
			return
		}
		filtered := make([]*models.MapLocation, 0, len(items))
		for _, l := range items {
			if l.DayID != nil && *l.DayID == dayID {
				filtered = append(filtered, l)
			}
		}
		items = filtered
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": items})
}

func (h *PlaceHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var l models.MapLocation
	if !decodeBody(w, r, &l) {
		return
	}
	fields := map[string]string{}
	l.Name, l.Type = strings.TrimSpace(l.Name), strings.TrimSpace(l.Type)
	if l.Name == "" {
		fields["name"] = "Name is required"
	}
	if l.Type == "" {
		fields["type"] = "Type is required"
	}
	validateCoords(fields, &l.Lat, &l.Lng)
	if validationFailed(w, r, fields) {
		return
	}
	l.TripID = tripID

	if err := h.repo.CreateLocation(r.Context(), &l); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *PlaceHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "location")
	if !ok {
		return
	}
	if err := h.repo.DeleteLocation(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Location")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateDocument(d *models.TravelDocument) map[string]string {
	fields := map[string]string{}
	d.Name, d.Type = strings.TrimSpace(d.Name), strings.TrimSpace(d.Type)
	if d.Name == "" {
		fields["name"] = "Name is required"
	}
	if d.Type == "" {
		fields["type"] = "Type is required"
	}
	return fields
}

func (h *PlaceHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	items, err := h.repo.ListDocuments(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": items})
}

func (h *PlaceHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var d models.TravelDocument
	if !decodeBody(w, r, &d) || validationFailed(w, r, validateDocument(&d)) {
		return
	}
	d.TripID = tripID

	if err := h.repo.CreateDocument(r.Context(), &d); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *PlaceHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "document")
	if !ok {
		return
	}
	d, err := h.repo.GetDocument(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Document")
		return
	}
	tripID := d.TripID
	if !decodeBody(w, r, d) {
		return
	}
	d.ID, d.TripID = id, tripID
	if validationFailed(w, r, validateDocument(d)) {
		return
	}

	if err := h.repo.UpdateDocument(r.Context(), d); err != nil {
		handleRepoError(w, r, err, "Document")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *PlaceHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "document")
	if !ok {
		return
	}
	if err := h.repo.DeleteDocument(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
