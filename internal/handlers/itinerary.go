package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
	"github.com/itaymdigi/Family-Navigator/internal/repository"
)

type dayRepository interface {
	CreateDay(ctx context.Context, d *models.TripDay) error
	ListDays(ctx context.Context, tripID uuid.UUID) ([]*models.TripDay, error)
	GetDay(ctx context.Context, id uuid.UUID) (*models.TripDay, error)
	UpdateDay(ctx context.Context, d *models.TripDay) error
	DeleteDay(ctx context.Context, id uuid.UUID) error

	CreateEvent(ctx context.Context, e *models.DayEvent) error
	ListEvents(ctx context.Context, dayID uuid.UUID) ([]*models.DayEvent, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.DayEvent, error)
	UpdateEvent(ctx context.Context, e *models.DayEvent) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type jobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ItineraryHandler serves trip days, their events, and weather refreshes.
type ItineraryHandler struct {
	days  dayRepository
	jobs  jobRepository
	redis *redis.Client
}

func NewItineraryHandler(days dayRepository, jobs jobRepository, redisClient *redis.Client) *ItineraryHandler {
	return &ItineraryHandler{days: days, jobs: jobs, redis: redisClient}
}

func validateDay(d *models.TripDay) map[string]string {
	fields := map[string]string{}
	d.Title = strings.TrimSpace(d.Title)
	if d.DayNumber < 1 {
		fields["day_number"] = "Day number must be positive"
	}
	if !validDate(d.Date) {
		fields["date"] = "Use YYYY-MM-DD"
	}
	if d.Title == "" {
		fields["title"] = "Title is required"
	}
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > 5) {
		fields["rating"] = "Rating must be between 0 and 5"
	}
	return fields
}

func validateEvent(e *models.DayEvent) map[string]string {
	fields := map[string]string{}
	e.Time = strings.TrimSpace(e.Time)
	e.Title = strings.TrimSpace(e.Title)
	if e.Time == "" {
		fields["time"] = "Time is required"
	}
	if e.Title == "" {
		fields["title"] = "Title is required"
	}
	return fields
}

func (h *ItineraryHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	days, err := h.days.ListDays(r.Context(), tripID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"days": days})
}

func (h *ItineraryHandler) CreateDay(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlID(w, r, "tripID", "trip")
	if !ok {
		return
	}
	var d models.TripDay
	if !decodeBody(w, r, &d) || validationFailed(w, r, validateDay(&d)) {
		return
	}
	d.TripID = tripID
	d.WeatherIcon, d.WeatherTemp, d.WeatherDesc = nil, nil, nil

	if err := h.days.CreateDay(r.Context(), &d); err != nil {
		handleRepoError(w, r, err, "Trip")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *ItineraryHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	d, err := h.days.GetDay(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	events, err := h.days.ListEvents(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"day": d, "events": events})
}

func (h *ItineraryHandler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	d, err := h.days.GetDay(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	tripID := d.TripID
	if !decodeBody(w, r, d) {
		return
	}
	d.ID, d.TripID = id, tripID
	if validationFailed(w, r, validateDay(d)) {
		return
	}

	if err := h.days.UpdateDay(r.Context(), d); err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ItineraryHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	if err := h.days.DeleteDay(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItineraryHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	dayID, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	events, err := h.days.ListEvents(r.Context(), dayID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *ItineraryHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	dayID, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	var e models.DayEvent
	if !decodeBody(w, r, &e) || validationFailed(w, r, validateEvent(&e)) {
		return
	}
	e.DayID = dayID

	if err := h.days.CreateEvent(r.Context(), &e); err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ItineraryHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "eventID", "event")
	if !ok {
		return
	}
	e, err := h.days.GetEvent(r.Context(), id)
	if err != nil {
		handleRepoError(w, r, err, "Event")
		return
	}
	dayID := e.DayID
	if !decodeBody(w, r, e) {
		return
	}
	e.ID, e.DayID = id, dayID
	if validationFailed(w, r, validateEvent(e)) {
		return
	}

	if err := h.days.UpdateEvent(r.Context(), e); err != nil {
		handleRepoError(w, r, err, "Event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ItineraryHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "eventID", "event")
	if !ok {
		return
	}
	if err := h.days.DeleteEvent(r.Context(), id); err != nil {
		handleRepoError(w, r, err, "Event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshWeather queues a weather-refresh job for the day.
func (h *ItineraryHandler) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	dayID, ok := urlID(w, r, "dayID", "day")
	if !ok {
		return
	}
	day, err := h.days.GetDay(r.Context(), dayID)
	if err != nil {
		handleRepoError(w, r, err, "Day")
		return
	}

	job := &models.Job{
		UserID:      middleware.GetUserID(r.Context()),
		Type:        models.JobTypeWeatherRefresh,
		TripID:      day.TripID,
		ReferenceID: day.ID,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if h.redis == nil {
		_ = h.jobs.UpdateStatus(r.Context(), job.ID, repository.JobStatusFailed)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Weather queue is unavailable", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:"+models.JobTypeWeatherRefresh, string(jobBytes)).Err(); err != nil {
		log.Error("failed to enqueue weather job", "job", job.ID, "err", err)
		_ = h.jobs.UpdateStatus(r.Context(), job.ID, repository.JobStatusFailed)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue weather job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"day_id": day.ID,
	})
}
