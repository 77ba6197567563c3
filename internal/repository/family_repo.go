package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// FamilyRepo stores the travellers on a trip and the trip's tips.
type FamilyRepo struct {
	pool *pgxpool.Pool
}

func NewFamilyRepo(pool *pgxpool.Pool) *FamilyRepo {
	return &FamilyRepo{pool: pool}
}

func (r *FamilyRepo) CreateMember(ctx context.Context, m *models.FamilyMember) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		"INSERT INTO family_members (id, trip_id, name, avatar, color) VALUES ($1, $2, $3, $4, $5)",
		m.ID, m.TripID, m.Name, m.Avatar, m.Color,
	)
	return err
}

func (r *FamilyRepo) ListMembers(ctx context.Context, tripID uuid.UUID) ([]*models.FamilyMember, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, trip_id, name, avatar, color FROM family_members WHERE trip_id = $1 ORDER BY name", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.FamilyMember, 0)
	for rows.Next() {
		m := &models.FamilyMember{}
		if err := rows.Scan(&m.ID, &m.TripID, &m.Name, &m.Avatar, &m.Color); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *FamilyRepo) DeleteMember(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM family_members WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

func (r *FamilyRepo) CreateTip(ctx context.Context, t *models.Tip) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		"INSERT INTO tips (id, trip_id, icon, text, sort_order) VALUES ($1, $2, $3, $4, $5)",
		t.ID, t.TripID, t.Icon, t.Text, t.SortOrder,
	)
	return err
}

func (r *FamilyRepo) ListTips(ctx context.Context, tripID uuid.UUID) ([]*models.Tip, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, trip_id, icon, text, sort_order FROM tips WHERE trip_id = $1 ORDER BY sort_order", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Tip, 0)
	for rows.Next() {
		t := &models.Tip{}
		if err := rows.Scan(&t.ID, &t.TripID, &t.Icon, &t.Text, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *FamilyRepo) DeleteTip(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM tips WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}
