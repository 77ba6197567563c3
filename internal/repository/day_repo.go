package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// DayRepo stores trip days and their scheduled events.
type DayRepo struct {
	pool *pgxpool.Pool
}

func NewDayRepo(pool *pgxpool.Pool) *DayRepo {
	return &DayRepo{pool: pool}
}

const dayColumns = `id, trip_id, day_number, date, title, subtitle, rating, maps_url, notes,
	weather_icon, weather_temp, weather_desc`

func scanDay(row pgx.Row) (*models.TripDay, error) {
	d := &models.TripDay{}
	err := row.Scan(&d.ID, &d.TripID, &d.DayNumber, &d.Date, &d.Title, &d.Subtitle, &d.Rating,
		&d.MapsURL, &d.Notes, &d.WeatherIcon, &d.WeatherTemp, &d.WeatherDesc)
	if err != nil {
		return nil, err
	}
	if d.Notes == nil {
		d.Notes = []string{}
	}
	return d, nil
}

func (r *DayRepo) CreateDay(ctx context.Context, d *models.TripDay) error {
	d.ID = uuid.New()
	if d.Notes == nil {
		d.Notes = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO trip_days (id, trip_id, day_number, date, title, subtitle, rating, maps_url, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.TripID, d.DayNumber, d.Date, d.Title, d.Subtitle, d.Rating, d.MapsURL, d.Notes,
	)
	return err
}

func (r *DayRepo) ListDays(ctx context.Context, tripID uuid.UUID) ([]*models.TripDay, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+dayColumns+" FROM trip_days WHERE trip_id = $1 ORDER BY day_number", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*models.TripDay, 0)
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *DayRepo) GetDay(ctx context.Context, id uuid.UUID) (*models.TripDay, error) {
	return scanDay(r.pool.QueryRow(ctx, "SELECT "+dayColumns+" FROM trip_days WHERE id = $1", id))
}

func (r *DayRepo) UpdateDay(ctx context.Context, d *models.TripDay) error {
	if d.Notes == nil {
		d.Notes = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE trip_days SET day_number = $1, date = $2, title = $3, subtitle = $4, rating = $5, maps_url = $6, notes = $7
		 WHERE id = $8`,
		d.DayNumber, d.Date, d.Title, d.Subtitle, d.Rating, d.MapsURL, d.Notes, d.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *DayRepo) UpdateWeather(ctx context.Context, dayID uuid.UUID, icon, temp, desc string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE trip_days SET weather_icon = $1, weather_temp = $2, weather_desc = $3 WHERE id = $4",
		icon, temp, desc, dayID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *DayRepo) DeleteDay(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM trip_days WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

const eventColumns = `id, day_id, time, title, description, sort_order`

func scanEvent(row pgx.Row) (*models.DayEvent, error) {
	e := &models.DayEvent{}
	if err := row.Scan(&e.ID, &e.DayID, &e.Time, &e.Title, &e.Description, &e.SortOrder); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *DayRepo) CreateEvent(ctx context.Context, e *models.DayEvent) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		"INSERT INTO day_events (id, day_id, time, title, description, sort_order) VALUES ($1, $2, $3, $4, $5, $6)",
		e.ID, e.DayID, e.Time, e.Title, e.Description, e.SortOrder,
	)
	return err
}

func (r *DayRepo) ListEvents(ctx context.Context, dayID uuid.UUID) ([]*models.DayEvent, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+eventColumns+" FROM day_events WHERE day_id = $1 ORDER BY sort_order, time", dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.DayEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *DayRepo) GetEvent(ctx context.Context, id uuid.UUID) (*models.DayEvent, error) {
	return scanEvent(r.pool.QueryRow(ctx, "SELECT "+eventColumns+" FROM day_events WHERE id = $1", id))
}

func (r *DayRepo) UpdateEvent(ctx context.Context, e *models.DayEvent) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE day_events SET time = $1, title = $2, description = $3, sort_order = $4 WHERE id = $5",
		e.Time, e.Title, e.Description, e.SortOrder, e.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *DayRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM day_events WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}
