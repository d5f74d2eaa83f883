package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type EarningRepo struct {
	pool *pgxpool.Pool
}

func NewEarningRepo(pool *pgxpool.Pool) *EarningRepo {
	return &EarningRepo{pool: pool}
}

const earningColumns = `id, owner_user_id, asset_id, amount, status, created_at, distributed_at`

func (r *EarningRepo) Create(ctx context.Context, e *models.Earning) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO earnings (owner_user_id, asset_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.OwnerUserID, e.AssetID, e.Amount, e.Status).Scan(&e.ID, &e.CreatedAt)
}

type EarningFilter struct {
	OwnerUserID *uuid.UUID
	Status      *string
	Limit       int
	Offset      int
}

func (r *EarningRepo) List(ctx context.Context, f EarningFilter) ([]models.Earning, error) {
	return r.query(ctx, `
		SELECT `+earningColumns+` FROM earnings
		WHERE ($1::uuid IS NULL OR owner_user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.OwnerUserID, f.Status, ClampLimit(f.Limit, DefaultPageLimit, MaxPageLimit), f.Offset)
}

// ListAll returns every earning of the owner (all owners when nil) for aggregation.
func (r *EarningRepo) ListAll(ctx context.Context, ownerID *uuid.UUID) ([]models.Earning, error) {
	return r.query(ctx, `
		SELECT `+earningColumns+` FROM earnings
		WHERE ($1::uuid IS NULL OR owner_user_id = $1)
		ORDER BY created_at DESC
	`, ownerID)
}

// DistributePending patches every pending earning created before cutoff in one statement.
func (r *EarningRepo) DistributePending(ctx context.Context, cutoff, now time.Time) ([]models.Earning, error) {
	return r.query(ctx, `
		UPDATE earnings SET status = $1, distributed_at = $2
		WHERE status = $3 AND created_at < $4
		RETURNING `+earningColumns,
		models.EarningStatusDistributed, now, models.EarningStatusPending, cutoff)
}

func (r *EarningRepo) query(ctx context.Context, query string, args ...any) ([]models.Earning, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Earning{}
	for rows.Next() {
		var e models.Earning
		if err := rows.Scan(&e.ID, &e.OwnerUserID, &e.AssetID, &e.Amount, &e.Status, &e.CreatedAt, &e.DistributedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
