package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) Create(ctx context.Context, m *models.ChatMessage) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (user_id, session_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.UserID, m.SessionID, m.Role, m.Content).Scan(&m.ID, &m.CreatedAt)
}

// ListBySession returns the last `limit` messages of a session in chronological order.
func (r *ChatRepo) ListBySession(ctx context.Context, userID, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, session_id, role, content, created_at FROM (
			SELECT id, user_id, session_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1 AND session_id = $2
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`, userID, sessionID, ClampLimit(limit, 20, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ChatRepo) Sessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT session_id, count(*), max(created_at)
		FROM chat_messages
		WHERE user_id = $1
		GROUP BY session_id
		ORDER BY max(created_at) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ChatSession{}
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.SessionID, &s.MessageCount, &s.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
