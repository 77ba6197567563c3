package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type AttractionRepo struct {
	pool *pgxpool.Pool
}

func NewAttractionRepo(pool *pgxpool.Pool) *AttractionRepo {
	return &AttractionRepo{pool: pool}
}

const attractionColumns = `id, day_id, name, description, duration, price, lat, lng, maps_url, waze_url, badges, image`

func scanAttraction(row pgx.Row) (*models.Attraction, error) {
	a := &models.Attraction{}
	err := row.Scan(&a.ID, &a.DayID, &a.Name, &a.Description, &a.Duration, &a.Price,
		&a.Lat, &a.Lng, &a.MapsURL, &a.WazeURL, &a.Badges, &a.Image)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AttractionRepo) Create(ctx context.Context, a *models.Attraction) error {
	a.ID = uuid.New()
	if a.Badges == nil {
		a.Badges = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attractions (id, day_id, name, description, duration, price, lat, lng, maps_url, waze_url, badges, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.DayID, a.Name, a.Description, a.Duration, a.Price, a.Lat, a.Lng, a.MapsURL, a.WazeURL, a.Badges, a.Image,
	)
	return err
}

func (r *AttractionRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]*models.Attraction, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+attractionColumns+" FROM attractions WHERE day_id = $1 ORDER BY created_at", dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Attraction, 0)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Attraction, error) {
	return scanAttraction(r.pool.QueryRow(ctx, "SELECT "+attractionColumns+" FROM attractions WHERE id = $1", id))
}

func (r *AttractionRepo) Update(ctx context.Context, a *models.Attraction) error {
	if a.Badges == nil {
		a.Badges = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE attractions SET name = $1, description = $2, duration = $3, price = $4, lat = $5, lng = $6,
		 maps_url = $7, waze_url = $8, badges = $9, image = $10 WHERE id = $11`,
		a.Name, a.Description, a.Duration, a.Price, a.Lat, a.Lng, a.MapsURL, a.WazeURL, a.Badges, a.Image, a.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *AttractionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM attractions WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}
