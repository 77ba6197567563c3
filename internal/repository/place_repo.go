package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// PlaceRepo stores map pins and travel documents.
type PlaceRepo struct {
	pool *pgxpool.Pool
}

func NewPlaceRepo(pool *pgxpool.Pool) *PlaceRepo {
	return &PlaceRepo{pool: pool}
}

const locationColumns = `id, trip_id, name, description, lat, lng, type, icon, day_id`

func (r *PlaceRepo) CreateLocation(ctx context.Context, l *models.MapLocation) error {
	l.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO map_locations (id, trip_id, name, description, lat, lng, type, icon, day_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.TripID, l.Name, l.Description, l.Lat, l.Lng, l.Type, l.Icon, l.DayID,
	)
	return err
}

func (r *PlaceRepo) ListLocations(ctx context.Context, tripID uuid.UUID) ([]*models.MapLocation, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+locationColumns+" FROM map_locations WHERE trip_id = $1 ORDER BY name", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.MapLocation, 0)
	for rows.Next() {
		l := &models.MapLocation{}
		if err := rows.Scan(&l.ID, &l.TripID, &l.Name, &l.Description, &l.Lat, &l.Lng, &l.Type, &l.Icon, &l.DayID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PlaceRepo) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM map_locations WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

const documentColumns = `id, trip_id, name, type, url, notes, sort_order`

func scanDocument(row pgx.Row) (*models.TravelDocument, error) {
	d := &models.TravelDocument{}
	if err := row.Scan(&d.ID, &d.TripID, &d.Name, &d.Type, &d.URL, &d.Notes, &d.SortOrder); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PlaceRepo) CreateDocument(ctx context.Context, d *models.TravelDocument) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		"INSERT INTO travel_documents (id, trip_id, name, type, url, notes, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		d.ID, d.TripID, d.Name, d.Type, d.URL, d.Notes, d.SortOrder,
	)
	return err
}

func (r *PlaceRepo) ListDocuments(ctx context.Context, tripID uuid.UUID) ([]*models.TravelDocument, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+documentColumns+" FROM travel_documents WHERE trip_id = $1 ORDER BY sort_order, name", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.TravelDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PlaceRepo) GetDocument(ctx context.Context, id uuid.UUID) (*models.TravelDocument, error) {
	return scanDocument(r.pool.QueryRow(ctx, "SELECT "+documentColumns+" FROM travel_documents WHERE id = $1", id))
}

func (r *PlaceRepo) UpdateDocument(ctx context.Context, d *models.TravelDocument) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE travel_documents SET name = $1, type = $2, url = $3, notes = $4, sort_order = $5 WHERE id = $6",
		d.Name, d.Type, d.URL, d.Notes, d.SortOrder, d.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *PlaceRepo) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM travel_documents WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}
