package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// ConversationRepo stores saved chat history.
type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	c.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		"INSERT INTO conversations (id, trip_id, title) VALUES ($1, $2, $3) RETURNING created_at",
		c.ID, c.TripID, c.Title,
	).Scan(&c.CreatedAt)
}

func (r *ConversationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, trip_id, title, created_at FROM conversations WHERE trip_id = $1 ORDER BY created_at DESC", tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Conversation, 0)
	for rows.Next() {
		c := &models.Conversation{}
		if err := rows.Scan(&c.ID, &c.TripID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	c := &models.Conversation{}
	err := r.pool.QueryRow(ctx, "SELECT id, trip_id, title, created_at FROM conversations WHERE id = $1", id).
		Scan(&c.ID, &c.TripID, &c.Title, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the conversation; its messages go with it.
func (r *ConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM conversations WHERE id = $1", id)
	return affected(tag.RowsAffected(), err)
}

func (r *ConversationRepo) AddMessage(ctx context.Context, m *models.StoredMessage) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		"INSERT INTO messages (id, conversation_id, role, content) VALUES ($1, $2, $3, $4) RETURNING created_at",
		m.ID, m.ConversationID, m.Role, m.Content,
	).Scan(&m.CreatedAt)
}

func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.StoredMessage, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = $1 ORDER BY created_at, id",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.StoredMessage, 0)
	for rows.Next() {
		m := &models.StoredMessage{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
