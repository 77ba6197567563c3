package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type stubFamilyRepo struct {
	members map[uuid.UUID]*models.FamilyMember
	tips    []*models.Tip
}

func (s *stubFamilyRepo) CreateMember(ctx context.Context, m *models.FamilyMember) error {
	m.ID = uuid.New()
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *stubFamilyRepo) ListMembers(ctx context.Context, tripID uuid.UUID) ([]*models.FamilyMember, error) {
	out := []*models.FamilyMember{}
	for _, m := range s.members {
		if m.TripID == tripID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubFamilyRepo) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.members[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.members, id)
	return nil
}

func (s *stubFamilyRepo) CreateTip(ctx context.Context, t *models.Tip) error {
	t.ID = uuid.New()
	cp := *t
	s.tips = append(s.tips, &cp)
	return nil
}

func (s *stubFamilyRepo) ListTips(ctx context.Context, tripID uuid.UUID) ([]*models.Tip, error) {
	out := []*models.Tip{}
	for _, t := range s.tips {
		if t.TripID == tripID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *stubFamilyRepo) DeleteTip(ctx context.Context, id uuid.UUID) error { return pgx.ErrNoRows }

func TestFamilyHandler_Members(t *testing.T) {
	repo := &stubFamilyRepo{members: map[uuid.UUID]*models.FamilyMember{}}
	h := NewFamilyHandler(repo)
	tripID := uuid.New()

	rr := httptest.NewRecorder()
	h.CreateMember(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{"name": "Noa"}), "tripID", tripID.String()))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "color")

	rr = httptest.NewRecorder()
	h.CreateMember(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{
		"name": " Noa ", "color": "#f97316", "avatar": "👧",
	}), "tripID", tripID.String()))
	require.Equal(t, http.StatusCreated, rr.Code)
	var m models.FamilyMember
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	assert.Equal(t, "Noa", m.Name)
	assert.Equal(t, tripID, m.TripID)

	rr = httptest.NewRecorder()
	h.ListMembers(rr, withParams(newRequest(t, http.MethodGet, "/", nil), "tripID", tripID.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Members []models.FamilyMember `json:"members"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Members, 1)

	rr = httptest.NewRecorder()
	h.DeleteMember(rr, withParams(newRequest(t, http.MethodDelete, "/", nil), "id", m.ID.String()))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, repo.members)
}

func TestFamilyHandler_TipsSorted(t *testing.T) {
	repo := &stubFamilyRepo{members: map[uuid.UUID]*models.FamilyMember{}}
	h := NewFamilyHandler(repo)
	tripID := uuid.New()

	for _, body := range []map[string]interface{}{
		{"icon": "💶", "text": "Most places take cards", "sort_order": 2},
		{"icon": "🚋", "text": "Buy tram tickets before boarding", "sort_order": 1},
	} {
		rr := httptest.NewRecorder()
		h.CreateTip(rr, withParams(newRequest(t, http.MethodPost, "/", body), "tripID", tripID.String()))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := httptest.NewRecorder()
	h.CreateTip(rr, withParams(newRequest(t, http.MethodPost, "/", map[string]interface{}{"icon": "x"}), "tripID", tripID.String()))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "text")

	rr = httptest.NewRecorder()
	h.ListTips(rr, withParams(newRequest(t, http.MethodGet, "/", nil), "tripID", tripID.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Tips []models.Tip `json:"tips"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Tips, 2)
	assert.Equal(t, 1, resp.Tips[0].SortOrder)

	rr = httptest.NewRecorder()
	h.DeleteTip(rr, withParams(newRequest(t, http.MethodDelete, "/", nil), "id", uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
