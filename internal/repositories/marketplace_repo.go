package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/precise-ai/backend/internal/models"
)

type MarketplaceRepo struct {
	pool *pgxpool.Pool
}

func NewMarketplaceRepo(pool *pgxpool.Pool) *MarketplaceRepo {
	return &MarketplaceRepo{pool: pool}
}

// --- Listings ---

const listingColumns = `id, owner_user_id, title, description, category, data_type,
	price_monthly, record_count, status, created_at`

func scanListing(row interface{ Scan(...any) error }) (*models.MarketplaceListing, error) {
	var l models.MarketplaceListing
	if err := row.Scan(&l.ID, &l.OwnerUserID, &l.Title, &l.Description, &l.Category, &l.DataType,
		&l.PriceMonthly, &l.RecordCount, &l.Status, &l.CreatedAt); err != nil {
		return nil, wrapNotFound(err)
	}
	return &l, nil
}

func (r *MarketplaceRepo) CreateListing(ctx context.Context, l *models.MarketplaceListing) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO marketplace_listings (owner_user_id, title, description, category, data_type,
		                                  price_monthly, record_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, l.OwnerUserID, l.Title, l.Description, l.Category, l.DataType, l.PriceMonthly, l.RecordCount, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *MarketplaceRepo) GetListing(ctx context.Context, id uuid.UUID) (*models.MarketplaceListing, error) {
	return scanListing(r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM marketplace_listings WHERE id = $1`, id))
}

type ListingFilter struct {
	OwnerUserID *uuid.UUID
	Category    *string
	Status      *string
	Search      string
	Limit       int
	Offset      int
}

func (r *MarketplaceRepo) ListListings(ctx context.Context, f ListingFilter) ([]models.MarketplaceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM marketplace_listings`
	args := []any{}
	where := []string{}

	if f.OwnerUserID != nil {
		args = append(args, *f.OwnerUserID)
		where = append(where, fmt.Sprintf("owner_user_id = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, ClampLimit(f.Limit, DefaultPageLimit, MaxPageLimit), f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MarketplaceListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// --- Solutions ---

func (r *MarketplaceRepo) CreateSolution(ctx context.Context, s *models.Solution) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO solutions (creator_user_id, name, description, category, price_monthly)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, installs, rating, created_at
	`, s.CreatorUserID, s.Name, s.Description, s.Category, s.PriceMonthly,
	).Scan(&s.ID, &s.Installs, &s.Rating, &s.CreatedAt)
}

func (r *MarketplaceRepo) ListSolutions(ctx context.Context, category *string) ([]models.Solution, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, creator_user_id, name, description, category, price_monthly, installs, rating, created_at
		FROM solutions
		WHERE ($1::text IS NULL OR category = $1)
		ORDER BY installs DESC, created_at DESC
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Solution{}
	for rows.Next() {
		var s models.Solution
		if err := rows.Scan(&s.ID, &s.CreatorUserID, &s.Name, &s.Description, &s.Category,
			&s.PriceMonthly, &s.Installs, &s.Rating, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- Pricing & benchmarks ---

func (r *MarketplaceRepo) ListPricing(ctx context.Context) ([]models.PricingPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, tier, price_monthly, features, highlighted, sort_order
		FROM pricing_plans
		ORDER BY sort_order, price_monthly
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PricingPlan{}
	for rows.Next() {
		var p models.PricingPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Tier, &p.PriceMonthly, &p.Features, &p.Highlighted, &p.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MarketplaceRepo) ListBenchmarks(ctx context.Context, metric *string) ([]models.CompetitorBenchmark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, competitor, metric, their_value, our_value, unit
		FROM competitor_benchmarks
		WHERE ($1::text IS NULL OR metric = $1)
		ORDER BY competitor, metric
	`, metric)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CompetitorBenchmark{}
	for rows.Next() {
		var b models.CompetitorBenchmark
		if err := rows.Scan(&b.ID, &b.Competitor, &b.Metric, &b.TheirValue, &b.OurValue, &b.Unit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
