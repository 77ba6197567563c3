package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type TripRepo struct {
	pool *pgxpool.Pool
}

func NewTripRepo(pool *pgxpool.Pool) *TripRepo {
	return &TripRepo{pool: pool}
}

const tripColumns = `id, name, destination, description, start_date, end_date, cover_emoji, created_by, created_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	t := &models.Trip{}
	err := row.Scan(&t.ID, &t.Name, &t.Destination, &t.Description, &t.StartDate, &t.EndDate,
		&t.CoverEmoji, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TripRepo) Create(ctx context.Context, t *models.Trip) error {
	t.ID = uuid.New()
	query := `INSERT INTO trips (id, name, destination, description, start_date, end_date, cover_emoji, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Destination, t.Description, t.StartDate, t.EndDate, t.CoverEmoji, t.CreatedBy,
	).Scan(&t.CreatedAt)
}

func (r *TripRepo) List(ctx context.Context) ([]*models.Trip, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+tripColumns+" FROM trips ORDER BY start_date, created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*models.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *TripRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	return scanTrip(r.pool.QueryRow(ctx, "SELECT "+tripColumns+" FROM trips WHERE id = $1", id))
}

func (r *TripRepo) Update(ctx context.Context, t *models.Trip) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trips SET name = $1, destination = $2, description = $3, start_date = $4, end_date = $5, cover_emoji = $6
		 WHERE id = $7`,
		t.Name, t.Destination, t.Description, t.StartDate, t.EndDate, t.CoverEmoji, t.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *TripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM trips WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

// affected turns a no-op update or delete into pgx.ErrNoRows.
func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
