package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

type CurrencyRepo struct {
	pool *pgxpool.Pool
}

func NewCurrencyRepo(pool *pgxpool.Pool) *CurrencyRepo {
	return &CurrencyRepo{pool: pool}
}

func (r *CurrencyRepo) List(ctx context.Context) ([]*models.CurrencyRate, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, from_currency, to_currency, rate, flag FROM currency_rates ORDER BY from_currency, to_currency")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.CurrencyRate, 0)
	for rows.Next() {
		c := &models.CurrencyRate{}
		if err := rows.Scan(&c.ID, &c.FromCurrency, &c.ToCurrency, &c.Rate, &c.Flag); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert inserts c or replaces the rate and flag of the existing pair.
func (r *CurrencyRepo) Upsert(ctx context.Context, c *models.CurrencyRate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO currency_rates (id, from_currency, to_currency, rate, flag)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (from_currency, to_currency) DO UPDATE SET rate = EXCLUDED.rate, flag = EXCLUDED.flag
		 RETURNING id`,
		uuid.New(), c.FromCurrency, c.ToCurrency, c.Rate, c.Flag,
	).Scan(&c.ID)
}

func (r *CurrencyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM currency_rates").Scan(&n)
	return n, err
}
