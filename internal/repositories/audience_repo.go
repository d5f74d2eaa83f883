package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type AudienceRepo struct {
	pool *pgxpool.Pool
}

func NewAudienceRepo(pool *pgxpool.Pool) *AudienceRepo {
	return &AudienceRepo{pool: pool}
}

func (r *AudienceRepo) ByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.AudienceInsight, error) {
	return r.query(ctx, `
		SELECT id, campaign_id, segment, channel, reach, conversions, spend, created_at
		FROM audience_insights
		WHERE campaign_id = $1
		ORDER BY created_at DESC
	`, campaignID)
}

// ByUser returns insights across all campaigns of the user (every user when nil).
func (r *AudienceRepo) ByUser(ctx context.Context, userID *uuid.UUID) ([]models.AudienceInsight, error) {
	return r.query(ctx, `
		SELECT a.id, a.campaign_id, a.segment, a.channel, a.reach, a.conversions, a.spend, a.created_at
		FROM audience_insights a
		JOIN campaigns c ON c.id = a.campaign_id
		WHERE ($1::uuid IS NULL OR c.user_id = $1)
	`, userID)
}

func (r *AudienceRepo) query(ctx context.Context, query string, args ...any) ([]models.AudienceInsight, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AudienceInsight{}
	for rows.Next() {
		var a models.AudienceInsight
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.Segment, &a.Channel, &a.Reach, &a.Conversions, &a.Spend, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
