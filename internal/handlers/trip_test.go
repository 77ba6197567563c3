package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type stubTripRepo struct {
	trips map[uuid.UUID]*models.Trip
}

func newStubTripRepo() *stubTripRepo {
	return &stubTripRepo{trips: map[uuid.UUID]*models.Trip{}}
}

func (s *stubTripRepo) Create(ctx context.Context, t *models.Trip) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *stubTripRepo) List(ctx context.Context) ([]*models.Trip, error) {
	out := make([]*models.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTripRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (s *stubTripRepo) Update(ctx context.Context, t *models.Trip) error {
	if _, ok := s.trips[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *stubTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.trips[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.trips, id)
	return nil
}

func validTripBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Czech 2026",
		"destination": "Bohemian Switzerland",
		"start_date":  "2026-03-25",
		"end_date":    "2026-04-02",
	}
}

func TestTripHandler_CreateSetsCreator(t *testing.T) {
	repo := newStubTripRepo()
	h := NewTripHandler(repo)
	admin := uuid.New()

	rr := httptest.NewRecorder()
	h.Create(rr, withUser(newRequest(t, http.MethodPost, "/api/v1/trips", validTripBody()), admin, models.UserRoleAdmin))

	require.Equal(t, http.StatusCreated, rr.Code)
	var got models.Trip
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, admin, got.CreatedBy)
	assert.Len(t, repo.trips, 1)
}

func TestTripHandler_CreateValidation(t *testing.T) {
	body := validTripBody()
	body["name"] = "  "
	body["end_date"] = "2026-03-01"
	body["start_date"] = "25.3.2026"

	rr := httptest.NewRecorder()
	NewTripHandler(newStubTripRepo()).Create(rr, newRequest(t, http.MethodPost, "/api/v1/trips", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Contains(t, apiErr.Fields, "name")
	assert.Contains(t, apiErr.Fields, "start_date")
}

func TestTripHandler_EndBeforeStart(t *testing.T) {
	body := validTripBody()
	body["end_date"] = "2026-03-01"

	rr := httptest.NewRecorder()
	NewTripHandler(newStubTripRepo()).Create(rr, newRequest(t, http.MethodPost, "/api/v1/trips", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "end_date")
}

func TestTripHandler_UpdateKeepsOwnership(t *testing.T) {
	repo := newStubTripRepo()
	owner := uuid.New()
	trip := &models.Trip{Name: "Old", Destination: "Prague", StartDate: "2026-03-25", EndDate: "2026-03-30", CreatedBy: owner}
	require.NoError(t, repo.Create(context.Background(), trip))

	body := map[string]interface{}{"name": "New", "created_by": uuid.New().String()}
	req := withParams(newRequest(t, http.MethodPut, "/api/v1/trips/"+trip.ID.String(), body), "tripID", trip.ID.String())
	rr := httptest.NewRecorder()
	NewTripHandler(repo).Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	stored := repo.trips[trip.ID]
	assert.Equal(t, "New", stored.Name)
	assert.Equal(t, "Prague", stored.Destination)
	assert.Equal(t, owner, stored.CreatedBy)
}

func TestTripHandler_GetAndDeleteMissing(t *testing.T) {
	h := NewTripHandler(newStubTripRepo())
	id := uuid.New().String()

	rr := httptest.NewRecorder()
	h.Get(rr, withParams(httptest.NewRequest(http.MethodGet, "/", nil), "tripID", id))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Delete(rr, withParams(httptest.NewRequest(http.MethodDelete, "/", nil), "tripID", id))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTripHandler_ListWrapsTrips(t *testing.T) {
	repo := newStubTripRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Trip{Name: "A"}))

	rr := httptest.NewRecorder()
	NewTripHandler(repo).List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Trips []models.Trip `json:"trips"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Len(t, body.Trips, 1)
}
