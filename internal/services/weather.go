package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// Coordinates used when no accommodation covers a day.
const (
	DefaultLat = 50.65
	DefaultLng = 15.5
)

// DailyForecast is the display form of one day's weather.
type DailyForecast struct {
	Icon string
	Temp string // "9–17°C"
	Desc string
}

// WeatherClient fetches daily forecasts from the Open-Meteo API.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWeatherClient(baseURL string, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &WeatherClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type openMeteoResponse struct {
	Daily struct {
		WeatherCode []int     `json:"weathercode"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Forecast returns the forecast for date (YYYY-MM-DD) at lat/lng.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lng float64, date string) (*DailyForecast, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	q.Set("start_date", date)
	q.Set("end_date", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast: %w", err)
	}

	var data openMeteoResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode forecast (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || data.Error {
		return nil, fmt.Errorf("forecast API returned %d: %s", resp.StatusCode, data.Reason)
	}

	d := data.Daily
	if len(d.WeatherCode) == 0 || len(d.TempMax) == 0 || len(d.TempMin) == 0 {
		return nil, fmt.Errorf("forecast has no data for %s", date)
	}

	icon, desc := WMODisplay(d.WeatherCode[0])
	return &DailyForecast{
		Icon: icon,
		Temp: fmt.Sprintf("%d–%d°C", int(math.Round(d.TempMin[0])), int(math.Round(d.TempMax[0]))),
		Desc: desc,
	}, nil
}

// WMODisplay maps a WMO weather interpretation code to an icon and a
// Hebrew description.
func WMODisplay(code int) (icon, desc string) {
	switch {
	case code == 0:
		return "☀️", "שמשי"
	case code <= 2:
		return "🌤️", "מעונן חלקית"
	case code == 3:
		return "☁️", "מעונן"
	case code <= 48:
		return "🌫️", "ערפל"
	case code <= 67:
		return "🌧️", "גשם"
	case code <= 77:
		return "🌨️", "שלג"
	case code <= 86:
		return "🌦️", "מקלחות גשם"
	default:
		return "⛈️", "סופת רעמים"
	}
}

// DateInRange reports whether date (YYYY-MM-DD) falls inside a day.month
// range such as "25.3–30.3" or "30.12-2.1", bounds included. Ranges that
// wrap past New Year end in the following year.
func DateInRange(date, rangeStr string) bool {
	ref, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return false
	}

	normalized := strings.NewReplacer("–", "-", "—", "-").Replace(rangeStr)
	parts := strings.Split(normalized, "-")
	if len(parts) != 2 {
		return false
	}

	start, ok := parseDayMonth(parts[0], ref.Year())
	if !ok {
		return false
	}
	end, ok := parseDayMonth(parts[1], ref.Year())
	if !ok {
		return false
	}

	if end.Before(start) {
		// The ref year may belong to either side of the wrap.
		if !ref.Before(start) {
			end = end.AddDate(1, 0, 0)
		} else {
			start = start.AddDate(-1, 0, 0)
		}
	}
	return !ref.Before(start) && !ref.After(end)
}

func parseDayMonth(s string, year int) (time.Time, bool) {
	d, m, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(d))
	month, err2 := strconv.Atoi(strings.TrimRight(strings.TrimSpace(m), "."))
	if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ResolveCoordinates picks where to forecast for date: the selected
// accommodation covering it, else any covering accommodation with
// coordinates, else the default point.
func ResolveCoordinates(date string, stays []*models.Accommodation) (lat, lng float64) {
	var fallback *models.Accommodation
	for _, a := range stays {
		if a.Lat == nil || a.Lng == nil || !DateInRange(date, a.Dates) {
			continue
		}
		if a.IsSelected {
			return *a.Lat, *a.Lng
		}
		if fallback == nil {
			fallback = a
		}
	}
	if fallback != nil {
		return *fallback.Lat, *fallback.Lng
	}
	return DefaultLat, DefaultLng
}
