package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type RestaurantRepo struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepo(pool *pgxpool.Pool) *RestaurantRepo {
	return &RestaurantRepo{pool: pool}
}

const restaurantColumns = `id, trip_id, name, cuisine, price_range, rating, address, lat, lng, maps_url, waze_url,
	notes, is_kosher, is_visited, image`

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	x := &models.Restaurant{}
	err := row.Scan(&x.ID, &x.TripID, &x.Name, &x.Cuisine, &x.PriceRange, &x.Rating, &x.Address, &x.Lat, &x.Lng,
		&x.MapsURL, &x.WazeURL, &x.Notes, &x.IsKosher, &x.IsVisited, &x.Image)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func (r *RestaurantRepo) Create(ctx context.Context, x *models.Restaurant) error {
	x.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO restaurants (id, trip_id, name, cuisine, price_range, rating, address, lat, lng, maps_url, waze_url,
			notes, is_kosher, is_visited, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		x.ID, x.TripID, x.Name, x.Cuisine, x.PriceRange, x.Rating, x.Address, x.Lat, x.Lng, x.MapsURL, x.WazeURL,
		x.Notes, x.IsKosher, x.IsVisited, x.Image,
	)
	return err
}

func (r *RestaurantRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Restaurant, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+restaurantColumns+" FROM restaurants WHERE trip_id = $1 ORDER BY name", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Restaurant, 0)
	for rows.Next() {
		x, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *RestaurantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return scanRestaurant(r.pool.QueryRow(ctx, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id))
}

func (r *RestaurantRepo) Update(ctx context.Context, x *models.Restaurant) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE restaurants SET name = $1, cuisine = $2, price_range = $3, rating = $4, address = $5, lat = $6, lng = $7,
			maps_url = $8, waze_url = $9, notes = $10, is_kosher = $11, image = $12
		 WHERE id = $13`,
		x.Name, x.Cuisine, x.PriceRange, x.Rating, x.Address, x.Lat, x.Lng,
		x.MapsURL, x.WazeURL, x.Notes, x.IsKosher, x.Image, x.ID,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *RestaurantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM restaurants WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

// ToggleVisited flips is_visited and returns the updated row.
func (r *RestaurantRepo) ToggleVisited(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return scanRestaurant(r.pool.QueryRow(ctx,
		"UPDATE restaurants SET is_visited = NOT is_visited WHERE id = $1 RETURNING "+restaurantColumns, id))
}
