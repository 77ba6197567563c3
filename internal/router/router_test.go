package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/handlers"
	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type listOnlyTrips struct{}

func (listOnlyTrips) Create(ctx context.Context, t *models.Trip) error { return nil }

func (listOnlyTrips) List(ctx context.Context) ([]*models.Trip, error) {
	return []*models.Trip{{ID: uuid.New(), Name: "Czech 2026"}}, nil
}

func (listOnlyTrips) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	return nil, nil
}

func (listOnlyTrips) Update(ctx context.Context, t *models.Trip) error { return nil }

func (listOnlyTrips) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *middleware.JWTAuth, string) {
	jwtAuth := middleware.NewJWTAuth("router-test-secret")
	storage := t.TempDir()
	h := Handlers{Trips: handlers.NewTripHandler(listOnlyTrips{})}
	return New(jwtAuth, h, nil, Options{
		FrontendURL: "http://localhost:5173",
		StoragePath: storage,
		AuthLimiter: middleware.NewRateLimiter(100, time.Minute),
		ChatLimiter: middleware.NewRateLimiter(100, time.Minute),
	}), jwtAuth, storage
}

func bearer(t *testing.T, auth *middleware.JWTAuth, role string) string {
	token, err := auth.GenerateAccessToken(uuid.New(), "family@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_AuthAndRoles(t *testing.T) {
	r, auth, _ := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/trips", "", http.StatusUnauthorized},
		{"chat needs auth", http.MethodPost, "/api/v1/chat", "", http.StatusUnauthorized},
		{"viewer reads", http.MethodGet, "/api/v1/trips", bearer(t, auth, models.UserRoleViewer), http.StatusOK},
		{"viewer cannot create trip", http.MethodPost, "/api/v1/trips", bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot edit restaurant", http.MethodPut, "/api/v1/restaurants/" + uuid.NewString(), bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot set rates", http.MethodPut, "/api/v1/currency-rates", bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot add day", http.MethodPost, "/api/v1/trips/" + uuid.NewString() + "/days", bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot add attraction", http.MethodPost, "/api/v1/days/" + uuid.NewString() + "/attractions", bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot add tip", http.MethodPost, "/api/v1/trips/" + uuid.NewString() + "/tips", bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
		{"viewer cannot remove member", http.MethodDelete, "/api/v1/members/" + uuid.NewString(), bearer(t, auth, models.UserRoleViewer), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRouter_ServesUploads(t *testing.T) {
	r, _, storage := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(storage, "pic.png"), []byte("png-bytes"), 0o644))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/pic.png", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png-bytes", rr.Body.String())
}
