package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type DSPRepo struct {
	pool *pgxpool.Pool
}

func NewDSPRepo(pool *pgxpool.Pool) *DSPRepo {
	return &DSPRepo{pool: pool}
}

const dspColumns = `id, campaign_id, dsp_name, spend, ecpm, trend, roas, status, recorded_at`

func (r *DSPRepo) Create(ctx context.Context, p *models.DSPPerformance) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO dsp_performance (campaign_id, dsp_name, spend, ecpm, trend, roas, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recorded_at
	`, p.CampaignID, p.DSPName, p.Spend, p.ECPM, p.Trend, p.ROAS, p.Status).Scan(&p.ID, &p.RecordedAt)
}

// Latest returns the newest snapshot of every DSP in the campaign.
func (r *DSPRepo) Latest(ctx context.Context, campaignID uuid.UUID) ([]models.DSPPerformance, error) {
	return r.query(ctx, `
		SELECT DISTINCT ON (dsp_name) `+dspColumns+`
		FROM dsp_performance
		WHERE campaign_id = $1
		ORDER BY dsp_name, recorded_at DESC
	`, campaignID)
}

func (r *DSPRepo) History(ctx context.Context, campaignID uuid.UUID, dspName *string, limit int) ([]models.DSPPerformance, error) {
	return r.query(ctx, `
		SELECT `+dspColumns+`
		FROM dsp_performance
		WHERE campaign_id = $1 AND ($2::text IS NULL OR dsp_name = $2)
		ORDER BY recorded_at DESC
		LIMIT $3
	`, campaignID, dspName, ClampLimit(limit, 50, 500))
}

func (r *DSPRepo) query(ctx context.Context, query string, args ...any) ([]models.DSPPerformance, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DSPPerformance{}
	for rows.Next() {
		var p models.DSPPerformance
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.DSPName, &p.Spend, &p.ECPM, &p.Trend,
			&p.ROAS, &p.Status, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
