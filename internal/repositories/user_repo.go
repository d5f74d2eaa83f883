package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, name, role, onboarded, created_at, last_active_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Onboarded, &u.CreatedAt, &u.LastActiveAt); err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

// UpsertByEmail creates the user or refreshes name/last_active_at. Role is only set on insert.
func (r *UserRepo) UpsertByEmail(ctx context.Context, email, name, role string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			last_active_at = now()
		RETURNING `+userColumns,
		email, name, role))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) CompleteOnboarding(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET role = $1, onboarded = true, last_active_at = now()
		WHERE id = $2
		RETURNING `+userColumns,
		role, id))
}

func (r *UserRepo) UpdateLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

// ListWithActiveCampaigns returns ids of users owning at least one active campaign.
func (r *UserRepo) ListWithActiveCampaigns(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT user_id FROM campaigns WHERE status = $1
	`, models.CampaignStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
