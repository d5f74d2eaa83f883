package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, user_id, name, status, current_cac, previous_cac, target_cac,
	spend, revenue, roas, dsps, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Status, &c.CurrentCAC, &c.PreviousCAC,
		&c.TargetCAC, &c.Spend, &c.Revenue, &c.ROAS, &c.DSPs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (user_id, name, status, current_cac, previous_cac, target_cac,
		                       spend, revenue, roas, dsps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Name, c.Status, c.CurrentCAC, c.PreviousCAC, c.TargetCAC,
		c.Spend, c.Revenue, c.ROAS, c.DSPs,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

func (r *CampaignRepo) UpdateMetrics(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		UPDATE campaigns SET current_cac = $1, previous_cac = $2, spend = $3, revenue = $4,
		       roas = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, c.CurrentCAC, c.PreviousCAC, c.Spend, c.Revenue, c.ROAS, c.ID).Scan(&c.UpdatedAt)
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}

type CampaignFilter struct {
	UserID *uuid.UUID
	Status *string
	Limit  int
	Offset int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	where := []string{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, ClampLimit(f.Limit, DefaultPageLimit, MaxPageLimit), f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.query(ctx, query, args...)
}

// ListAll returns every campaign matching the filter without paging, for in-memory aggregation.
func (r *CampaignRepo) ListAll(ctx context.Context, userID *uuid.UUID, status *string) ([]models.Campaign, error) {
	return r.query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
	`, userID, status)
}

func (r *CampaignRepo) query(ctx context.Context, query string, args ...any) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}
