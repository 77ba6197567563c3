package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

func TestWMODisplay(t *testing.T) {
	tests := []struct {
		code int
		icon string
		desc string
	}{
		{0, "☀️", "שמשי"},
		{2, "🌤️", "מעונן חלקית"},
		{3, "☁️", "מעונן"},
		{45, "🌫️", "ערפל"},
		{61, "🌧️", "גשם"},
		{71, "🌨️", "שלג"},
		{80, "🌦️", "מקלחות גשם"},
		{95, "⛈️", "סופת רעמים"},
	}
	for _, tc := range tests {
		icon, desc := WMODisplay(tc.code)
		assert.Equal(t, tc.icon, icon, "code %d", tc.code)
		assert.Equal(t, tc.desc, desc, "code %d", tc.code)
	}
}

func TestDateInRange(t *testing.T) {
	tests := []struct {
		date, rng string
		want      bool
	}{
		{"2025-03-25", "25.3–30.3", true},
		{"2025-03-30", "25.3-30.3", true},
		{"2025-03-31", "25.3–30.3", false},
		{"2025-03-24", "25.3–30.3", false},
		{"2025-01-01", "30.12–2.1", true},
		{"2025-12-31", "30.12–2.1", true},
		{"2025-01-03", "30.12–2.1", false},
		{"2025-03-25", "garbage", false},
		{"not-a-date", "25.3–30.3", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DateInRange(tc.date, tc.rng), "%s in %s", tc.date, tc.rng)
	}
}

func ptr[T any](v T) *T { return &v }

func TestResolveCoordinates(t *testing.T) {
	stays := []*models.Accommodation{
		{Dates: "25.3–28.3", Lat: ptr(50.1), Lng: ptr(14.4)},
		{Dates: "25.3–28.3", Lat: ptr(50.7), Lng: ptr(15.7), IsSelected: true},
		{Dates: "29.3–1.4"},
	}

	lat, lng := ResolveCoordinates("2025-03-26", stays)
	assert.Equal(t, 50.7, lat)
	assert.Equal(t, 15.7, lng)

	lat, lng = ResolveCoordinates("2025-03-30", stays)
	assert.Equal(t, DefaultLat, lat)
	assert.Equal(t, DefaultLng, lng)
}

func TestWeatherClient_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "2025-03-26", r.URL.Query().Get("start_date"))
		assert.Equal(t, "50.65", r.URL.Query().Get("latitude"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":{"weathercode":[61],"temperature_2m_max":[12.6],"temperature_2m_min":[3.4]}}`))
	}))
	defer srv.Close()

	fc, err := NewWeatherClient(srv.URL, srv.Client()).Forecast(context.Background(), DefaultLat, DefaultLng, "2025-03-26")
	require.NoError(t, err)
	assert.Equal(t, "🌧️", fc.Icon)
	assert.Equal(t, "3–13°C", fc.Temp)
	assert.Equal(t, "גשם", fc.Desc)
}

func TestWeatherClient_ForecastErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start_date") == "2099-01-01" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":true,"reason":"date out of range"}`))
			return
		}
		w.Write([]byte(`{"daily":{"weathercode":[],"temperature_2m_max":[],"temperature_2m_min":[]}}`))
	}))
	defer srv.Close()

	client := NewWeatherClient(srv.URL, srv.Client())

	_, err := client.Forecast(context.Background(), 1, 2, "2099-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date out of range")

	_, err = client.Forecast(context.Background(), 1, 2, "2025-03-26")
	assert.Error(t, err)
}
