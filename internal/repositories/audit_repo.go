package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Log(ctx context.Context, entry models.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_user_id, actor_type, action, entity_type, entity_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ActorUserID, entry.ActorType, entry.Action, entry.EntityType, entry.EntityID, entry.Meta)
	return err
}

// AuditFilter selects the trail of one entity. Empty Actions means all actions.
type AuditFilter struct {
	EntityType string
	EntityID   uuid.UUID
	Actions    []string
	Limit      int
	Offset     int
}

func (r *AuditRepo) ListByEntity(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	var actions []string
	if len(f.Actions) > 0 {
		actions = f.Actions
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_user_id, actor_type, action, entity_type, entity_id, meta, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		  AND ($3::text[] IS NULL OR action = ANY($3))
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5
	`, f.EntityType, f.EntityID, actions, ClampLimit(f.Limit, 50, 200), f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.ActorType, &l.Action, &l.EntityType, &l.EntityID, &l.Meta, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
