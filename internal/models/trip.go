package models

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Description *string   `json:"description"`
	StartDate   string    `json:"start_date"` // YYYY-MM-DD
	EndDate     string    `json:"end_date"`
	CoverEmoji  *string   `json:"cover_emoji"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TripDay is one day of a trip's itinerary.
type TripDay struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	DayNumber   int       `json:"day_number"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Title       string    `json:"title"`
	Subtitle    *string   `json:"subtitle"`
	Rating      *int      `json:"rating"`
	MapsURL     *string   `json:"maps_url"`
	Notes       []string  `json:"notes"`
	WeatherIcon *string   `json:"weather_icon"`
	WeatherTemp *string   `json:"weather_temp"`
	WeatherDesc *string   `json:"weather_desc"`
}

type DayEvent struct {
	ID          uuid.UUID `json:"id"`
	DayID       uuid.UUID `json:"day_id"`
	Time        string    `json:"time"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	SortOrder   int       `json:"sort_order"`
}

type Accommodation struct {
	ID              uuid.UUID `json:"id"`
	TripID          uuid.UUID `json:"trip_id"`
	Name            string    `json:"name"`
	Stars           int       `json:"stars"`
	Description     string    `json:"description"`
	PriceRange      *string   `json:"price_range"`
	Lat             *float64  `json:"lat"`
	Lng             *float64  `json:"lng"`
	MapsURL         *string   `json:"maps_url"`
	WazeURL         *string   `json:"waze_url"`
	Dates           string    `json:"dates"` // "25.3–28.3"
	BaseName        *string   `json:"base_name"`
	IsSelected      bool      `json:"is_selected"`
	ReservationURL  *string   `json:"reservation_url"`
	ReservationName *string   `json:"reservation_name"`
}

type Restaurant struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	Name       string    `json:"name"`
	Cuisine    *string   `json:"cuisine"`
	PriceRange *string   `json:"price_range"`
	Rating     *int      `json:"rating"`
	Address    *string   `json:"address"`
	Lat        *float64  `json:"lat"`
	Lng        *float64  `json:"lng"`
	MapsURL    *string   `json:"maps_url"`
	WazeURL    *string   `json:"waze_url"`
	Notes      *string   `json:"notes"`
	IsKosher   bool      `json:"is_kosher"`
	IsVisited  bool      `json:"is_visited"`
	Image      *string   `json:"image"`
}

// MapLocation is a pin on the trip map.
type MapLocation struct {
	ID          uuid.UUID  `json:"id"`
	TripID      uuid.UUID  `json:"trip_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Type        string     `json:"type"`
	Icon        *string    `json:"icon"`
	DayID       *uuid.UUID `json:"day_id"`
}

// Attraction is a sight planned for one itinerary day.
type Attraction struct {
	ID          uuid.UUID `json:"id"`
	DayID       uuid.UUID `json:"day_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    *string   `json:"duration"`
	Price       *string   `json:"price"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	MapsURL     *string   `json:"maps_url"`
	WazeURL     *string   `json:"waze_url"`
	Badges      []string  `json:"badges"`
	Image       *string   `json:"image"`
}

type Tip struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Icon      string    `json:"icon"`
	Text      string    `json:"text"`
	SortOrder int       `json:"sort_order"`
}

// FamilyMember is a traveller shown on the trip, not a login account.
type FamilyMember struct {
	ID     uuid.UUID `json:"id"`
	TripID uuid.UUID `json:"trip_id"`
	Name   string    `json:"name"`
	Avatar *string   `json:"avatar"`
	Color  string    `json:"color"`
}

type TravelDocument struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	URL       *string   `json:"url"`
	Notes     *string   `json:"notes"`
	SortOrder int       `json:"sort_order"`
}

type Photo struct {
	ID         uuid.UUID  `json:"id"`
	TripID     uuid.UUID  `json:"trip_id"`
	URL        string     `json:"url"`
	Caption    string     `json:"caption"`
	Category   string     `json:"category"`
	UploadedBy *uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CurrencyRate struct {
	ID           uuid.UUID `json:"id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Flag         string    `json:"flag"`
}

type Conversion struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Result float64 `json:"result"`
	Via    string  `json:"via,omitempty"`
}
