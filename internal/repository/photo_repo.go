package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

const photoColumns = `id, trip_id, url, caption, category, uploaded_by, created_at`

// Create inserts p. The caller may set p.ID beforehand to match a stored
// file name.
func (r *PhotoRepo) Create(ctx context.Context, p *models.Photo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO photos (id, trip_id, url, caption, category, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		p.ID, p.TripID, p.URL, p.Caption, p.Category, p.UploadedBy,
	).Scan(&p.CreatedAt)
}

func (r *PhotoRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Photo, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+photoColumns+" FROM photos WHERE trip_id = $1 ORDER BY created_at DESC", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Photo, 0)
	for rows.Next() {
		p := &models.Photo{}
		if err := rows.Scan(&p.ID, &p.TripID, &p.URL, &p.Caption, &p.Category, &p.UploadedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	p := &models.Photo{}
	err := r.pool.QueryRow(ctx, "SELECT "+photoColumns+" FROM photos WHERE id = $1", id).Scan(
		&p.ID, &p.TripID, &p.URL, &p.Caption, &p.Category, &p.UploadedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM photos WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}
