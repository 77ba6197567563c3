package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type AccommodationRepo struct {
	pool *pgxpool.Pool
}

func NewAccommodationRepo(pool *pgxpool.Pool) *AccommodationRepo {
	return &AccommodationRepo{pool: pool}
}

const accommodationColumns = `id, trip_id, name, stars, description, price_range, lat, lng, maps_url, waze_url,
	dates, base_name, is_selected, reservation_url, reservation_name`

func scanAccommodation(row pgx.Row) (*models.Accommodation, error) {
	a := &models.Accommodation{}
	err := row.Scan(&a.ID, &a.TripID, &a.Name, &a.Stars, &a.Description, &a.PriceRange, &a.Lat, &a.Lng,
		&a.MapsURL, &a.WazeURL, &a.Dates, &a.BaseName, &a.IsSelected, &a.ReservationURL, &a.ReservationName)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccommodationRepo) Create(ctx context.Context, a *models.Accommodation) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accommodations (id, trip_id, name, stars, description, price_range, lat, lng, maps_url, waze_url,
			dates, base_name, is_selected, reservation_url, reservation_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.ID, a.TripID, a.Name, a.Stars, a.Description, a.PriceRange, a.Lat, a.Lng, a.MapsURL, a.WazeURL,
		a.Dates, a.BaseName, a.IsSelected, a.ReservationURL, a.ReservationName,
	)
	return err
}

func (r *AccommodationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Accommodation, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+accommodationColumns+" FROM accommodations WHERE trip_id = $1 ORDER BY base_name, name", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Accommodation, 0)
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccommodationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Accommodation, error) {
	return scanAccommodation(r.pool.QueryRow(ctx, "SELECT "+accommodationColumns+" FROM accommodations WHERE id = $1", id))
}

func (r *AccommodationRepo) Update(ctx context.Context, a *models.Accommodation) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accommodations SET name = $1, stars = $2, description = $3, price_range = $4, lat = $5, lng = $6,
			maps_url = $7, waze_url = $8, dates = $9, base_name = $10, reservation_url = $11, reservation_name = $12
		 WHERE id = $13`,
		a.Name, a.Stars, a.Description, a.PriceRange, a.Lat, a.Lng, a.MapsURL, a.WazeURL,
		a.Dates, a.BaseName, a.ReservationURL, a.ReservationName, a.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *AccommodationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM accommodations WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

// Select marks id as the chosen stay for its base and clears the flag on
// every other accommodation of the same trip and base.
func (r *AccommodationRepo) Select(ctx context.Context, id uuid.UUID) (*models.Accommodation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAccommodation(tx.QueryRow(ctx, "SELECT "+accommodationColumns+" FROM accommodations WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accommodations SET is_selected = FALSE
		 WHERE trip_id = $1 AND base_name IS NOT DISTINCT FROM $2 AND id <> $3`,
		a.TripID, a.BaseName, a.ID,
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "UPDATE accommodations SET is_selected = TRUE WHERE id = $1", a.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	a.IsSelected = true
	return a, nil
}
