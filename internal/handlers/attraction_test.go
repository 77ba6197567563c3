package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type stubAttractionRepo struct {
	items map[uuid.UUID]*models.Attraction
	days  map[uuid.UUID]bool
}

func (s *stubAttractionRepo) Create(ctx context.Context, a *models.Attraction) error {
	if !s.days[a.DayID] {
		return &pgconn.PgError{Code: "23503"}
	}
	a.ID = uuid.New()
	cp := *a
	s.items[a.ID] = &cp
	return nil
}

func (s *stubAttractionRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]*models.Attraction, error) {
	out := []*models.Attraction{}
	for _, a := range s.items {
		if a.DayID == dayID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAttractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Attraction, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (s *stubAttractionRepo) Update(ctx context.Context, a *models.Attraction) error {
	cp := *a
	s.items[a.ID] = &cp
	return nil
}

func (s *stubAttractionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

func newAttractionFixture() (*AttractionHandler, *stubAttractionRepo, uuid.UUID) {
	dayID := uuid.New()
	repo := &stubAttractionRepo{items: map[uuid.UUID]*models.Attraction{}, days: map[uuid.UUID]bool{dayID: true}}
	return NewAttractionHandler(repo), repo, dayID
}

func TestAttractionHandler_CreateAndList(t *testing.T) {
	h, _, dayID := newAttractionFixture()

	rr := httptest.NewRecorder()
	h.Create(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{
		"name":        "Prague Castle",
		"description": "Castle complex above the Vltava",
		"lat":         50.0911,
		"lng":         14.4016,
		"badges":      []string{"kids", " ", "view"},
	}), "dayID", dayID.String()))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Attraction
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, dayID, created.DayID)
	assert.Equal(t, []string{"kids", "view"}, created.Badges)

	rr = httptest.NewRecorder()
	h.List(rr, withParams(newRequest(t, http.MethodGet, "/", nil), "dayID", dayID.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Attractions []models.Attraction `json:"attractions"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Attractions, 1)
	assert.Equal(t, "Prague Castle", resp.Attractions[0].Name)
}

func TestAttractionHandler_CreateRejects(t *testing.T) {
	h, _, dayID := newAttractionFixture()

	rr := httptest.NewRecorder()
	h.Create(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{"name": "", "lat": 50.0}), "dayID", dayID.String()))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	fields := decodeError(t, rr).Fields
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "lat")

	rr = httptest.NewRecorder()
	h.Create(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{"name": "Zoo"}), "dayID", uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAttractionHandler_UpdateKeepsDay(t *testing.T) {
	h, repo, dayID := newAttractionFixture()
	a := models.Attraction{DayID: dayID, Name: "Old Town Square"}
	require.NoError(t, repo.Create(context.Background(), &a))

	rr := httptest.NewRecorder()
	h.Update(rr, withParams(newRequest(t, http.MethodPut, "/", map[string]interface{}{
		"price": "free", "day_id": uuid.New(),
	}), "id", a.ID.String()))
	require.Equal(t, http.StatusOK, rr.Code)

	stored := repo.items[a.ID]
	assert.Equal(t, dayID, stored.DayID)
	assert.Equal(t, "Old Town Square", stored.Name)
	require.NotNil(t, stored.Price)
	assert.Equal(t, "free", *stored.Price)

	rr = httptest.NewRecorder()
	h.Delete(rr, withParams(newRequest(t, http.MethodDelete, "/", nil), "id", a.ID.String()))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.Delete(rr, withParams(newRequest(t, http.MethodDelete, "/", nil), "id", a.ID.String()))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Attraction not found", decodeError(t, rr).Message)
}
