package models

import (
	"time"

	"github.com/google/uuid"
)

const JobTypeWeatherRefresh = "weather-refresh"

type Job struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Type         string     `json:"type"` // "weather-refresh"
	TripID       uuid.UUID  `json:"trip_id"`
	ReferenceID  uuid.UUID  `json:"reference_id"`
	Status       string     `json:"status"` // "pending" | "processing" | "completed" | "failed"
	RetryCount   int        `json:"retry_count"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WeatherUpdate struct {
	JobID   uuid.UUID `json:"job_id"`
	TripID  uuid.UUID `json:"trip_id"`
	DayID   uuid.UUID `json:"day_id"`
	Icon    string    `json:"icon"`
	Temp    string    `json:"temp"`
	Summary string    `json:"summary"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
