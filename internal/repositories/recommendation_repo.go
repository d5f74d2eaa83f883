package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

const recommendationColumns = `id, user_id, campaign_id, type, priority, status, title, description, created_at, updated_at`

func scanRecommendation(row interface{ Scan(...any) error }) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.CampaignID, &rec.Type, &rec.Priority, &rec.Status,
		&rec.Title, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, wrapNotFound(err)
	}
	return &rec, nil
}

func (r *RecommendationRepo) Create(ctx context.Context, rec *models.Recommendation) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO recommendations (user_id, campaign_id, type, priority, status, title, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, rec.UserID, rec.CampaignID, rec.Type, rec.Priority, rec.Status, rec.Title, rec.Description,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *RecommendationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	return scanRecommendation(r.pool.QueryRow(ctx, `SELECT `+recommendationColumns+` FROM recommendations WHERE id = $1`, id))
}

// ListByUser orders by the static priority map in SQL as well, so paging stays stable.
func (r *RecommendationRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]models.Recommendation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recommendationColumns+` FROM recommendations
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END,
		         created_at DESC
	`, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Recommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *RecommendationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE recommendations SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// HasOpen reports whether a new/viewed recommendation of this type already exists for the campaign.
func (r *RecommendationRepo) HasOpen(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID, recType string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM recommendations
			WHERE user_id = $1 AND type = $2
			  AND campaign_id IS NOT DISTINCT FROM $3
			  AND status IN ('new', 'viewed')
		)
	`, userID, recType, campaignID).Scan(&exists)
	return exists, err
}
