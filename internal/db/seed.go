package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
)

// Fixed ids keep the demo seed idempotent.
var (
	DemoBuyerID    = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	DemoOwnerID    = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	DemoCreatorID  = uuid.MustParse("00000000-0000-4000-8000-000000000003")
	demoCampaignNS = uuid.MustParse("6f1c2b4e-3d5a-4c1e-9b7f-0a2d4e6f8a10")
)

type demoCampaign struct {
	name        string
	status      string
	targetCAC   string
	previousCAC string
	currentCAC  string
	spend       string
	revenue     string
	dsps        []string
}

var demoCampaigns = []demoCampaign{
	{"Spring Launch - Prospecting", models.CampaignStatusActive, "42", "68.40", "51.20", "184500", "612300", []string{"The Trade Desk", "DV360", "Amazon DSP"}},
	{"Retargeting - Cart Abandoners", models.CampaignStatusActive, "18", "27.90", "19.60", "62100", "248900", []string{"The Trade Desk", "Criteo"}},
	{"CTV Brand Lift", models.CampaignStatusActive, "95", "142.50", "131.00", "310000", "402000", []string{"Amazon DSP"}},
	{"Holiday Promo 2025", models.CampaignStatusCompleted, "30", "45.00", "28.75", "98000", "441000", []string{"DV360", "Xandr"}},
	{"Podcast Test", models.CampaignStatusPaused, "60", "90.00", "90.00", "0", "0", nil},
}

type demoDSP struct {
	spend, ecpm, trend, roas string
}

var demoDSPNumbers = []demoDSP{
	{"61500", "8.40", "12.5", "3.42"},
	{"48200", "6.10", "-7.2", "1.85"},
	{"74800", "11.30", "3.1", "2.97"},
	{"31050", "4.20", "18.0", "4.10"},
}

var demoListings = []struct {
	id                            string
	title, category, dataType     string
	price                         string
	records                       int64
}{
	{"00000000-0000-4000-9000-000000000001", "Retail Purchase Intent - US", "retail", "first_party", "4500", 18_400_000},
	{"00000000-0000-4000-9000-000000000002", "Auto In-Market Shoppers", "automotive", "behavioral", "3200", 6_250_000},
	{"00000000-0000-4000-9000-000000000003", "CPG Loyalty Households", "cpg", "transactional", "5800", 11_900_000},
}

var demoSolutions = []struct {
	name, description, category, price, rating string
	installs                                   int
}{
	{"Incrementality Lens", "Geo holdout design and lift readouts for any DSP.", "measurement", "499", "4.70", 128},
	{"Budget Pacer", "Daily pacing alerts when spend drifts from plan.", "optimization", "199", "4.40", 342},
	{"Creative Fatigue Radar", "Flags creatives whose CTR decays week over week.", "creative", "149", "4.20", 87},
}

var demoPricing = []struct {
	name, tier, price string
	features          []string
	highlighted       bool
}{
	{"Starter", "starter", "0", []string{"1 connected DSP", "Weekly CAC report", "Community support"}, false},
	{"Growth", "growth", "1499", []string{"5 connected DSPs", "Daily recommendations", "Marketplace access", "AI analyst chat"}, true},
	{"Enterprise", "enterprise", "4999", []string{"Unlimited DSPs", "Custom data partnerships", "Dedicated strategist", "SSO"}, false},
}

var demoBenchmarks = []struct {
	competitor, metric, their, ours, unit string
}{
	{"Legacy MMM vendor", "time_to_insight", "42", "1", "days"},
	{"Legacy MMM vendor", "cac_reduction", "8", "27", "percent"},
	{"Walled-garden attribution", "cross_dsp_coverage", "1", "6", "platforms"},
	{"Walled-garden attribution", "data_owner_revenue_share", "0", "70", "percent"},
}

var demoSegments = []struct {
	segment, channel string
	reach, conv      int64
	spend            string
}{
	{"In-market shoppers", "display", 1_240_000, 9_800, "182000"},
	{"Lookalike 1%", "ctv", 860_000, 5_100, "141000"},
	{"Lapsed customers", "display", 310_000, 4_400, "38000"},
	{"Broad prospecting", "video", 2_900_000, 6_200, "265000"},
}

// Seed inserts the fictional demo dataset. Re-running it is a no-op.
func Seed(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	users := []struct {
		id                uuid.UUID
		email, name, role string
	}{
		{DemoBuyerID, "buyer@demo.precise.ai", "Morgan Reyes", models.RoleMediaBuyer},
		{DemoOwnerID, "owner@demo.precise.ai", "Priya Natarajan", models.RoleDataOwner},
		{DemoCreatorID, "creator@demo.precise.ai", "Sam Okafor", models.RoleSolutionCreator},
	}
	for _, u := range users {
		if _, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, name, role, onboarded)
			VALUES ($1, $2, $3, $4, true)
			ON CONFLICT DO NOTHING
		`, u.id, u.email, u.name, u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	now := time.Now()
	for i, c := range demoCampaigns {
		id := uuid.NewSHA1(demoCampaignNS, []byte(c.name))
		spend := decimal.RequireFromString(c.spend)
		revenue := decimal.RequireFromString(c.revenue)
		dsps := c.dsps
		if dsps == nil {
			dsps = []string{}
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO campaigns (id, user_id, name, status, current_cac, previous_cac, target_cac,
			                       spend, revenue, roas, dsps, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
			ON CONFLICT DO NOTHING
		`, id, DemoBuyerID, c.name, c.status,
			decimal.RequireFromString(c.currentCAC), decimal.RequireFromString(c.previousCAC),
			decimal.RequireFromString(c.targetCAC), spend, revenue,
			models.ComputeROAS(revenue, spend), dsps, now.AddDate(0, 0, -30+i*3),
		); err != nil {
			return fmt.Errorf("seed campaign %q: %w", c.name, err)
		}

		for j, dsp := range c.dsps {
			n := demoDSPNumbers[(i+j)%len(demoDSPNumbers)]
			roas := decimal.RequireFromString(n.roas)
			trend := decimal.RequireFromString(n.trend)
			snapID := uuid.NewSHA1(id, []byte(dsp))
			if _, err := pool.Exec(ctx, `
				INSERT INTO dsp_performance (id, campaign_id, dsp_name, spend, ecpm, trend, roas, status, recorded_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT DO NOTHING
			`, snapID, id, dsp, decimal.RequireFromString(n.spend), decimal.RequireFromString(n.ecpm),
				trend, roas, models.ClassifyDSP(roas, trend), now.Add(-time.Duration(j+1)*time.Hour),
			); err != nil {
				return fmt.Errorf("seed dsp %q: %w", dsp, err)
			}
		}

		for k, s := range demoSegments {
			if c.status == models.CampaignStatusPaused {
				break
			}
			insightID := uuid.NewSHA1(id, []byte(s.segment))
			if _, err := pool.Exec(ctx, `
				INSERT INTO audience_insights (id, campaign_id, segment, channel, reach, conversions, spend)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT DO NOTHING
			`, insightID, id, s.segment, s.channel, s.reach/int64(i+1), s.conv/int64(i+k+1),
				decimal.RequireFromString(s.spend).Div(decimal.NewFromInt(int64(i+1))).Round(2),
			); err != nil {
				return fmt.Errorf("seed audience %q: %w", s.segment, err)
			}
		}
	}

	for i, l := range demoListings {
		listingID := uuid.MustParse(l.id)
		if _, err := pool.Exec(ctx, `
			INSERT INTO marketplace_listings (id, owner_user_id, title, description, category, data_type,
			                                  price_monthly, record_count, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
			ON CONFLICT DO NOTHING
		`, listingID, DemoOwnerID, l.title, "Privacy-safe audience segment, refreshed daily.",
			l.category, l.dataType, decimal.RequireFromString(l.price), l.records,
		); err != nil {
			return fmt.Errorf("seed listing %q: %w", l.title, err)
		}

		// Two older rows for the distribution job and one fresh pending row.
		amounts := []struct {
			amount string
			age    time.Duration
		}{
			{"1250.00", 72 * time.Hour},
			{"860.40", 3 * time.Hour},
			{"312.75", 10 * time.Minute},
		}
		for j, a := range amounts {
			earningID := uuid.NewSHA1(listingID, []byte(fmt.Sprintf("earning-%d", j)))
			if _, err := pool.Exec(ctx, `
				INSERT INTO earnings (id, owner_user_id, asset_id, amount, status, created_at)
				VALUES ($1, $2, $3, $4, 'pending', $5)
				ON CONFLICT DO NOTHING
			`, earningID, DemoOwnerID, listingID,
				decimal.RequireFromString(a.amount).Mul(decimal.NewFromInt(int64(i+1))), now.Add(-a.age),
			); err != nil {
				return fmt.Errorf("seed earning: %w", err)
			}
		}
	}

	for _, s := range demoSolutions {
		if _, err := pool.Exec(ctx, `
			INSERT INTO solutions (id, creator_user_id, name, description, category, price_monthly, installs, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT DO NOTHING
		`, uuid.NewSHA1(DemoCreatorID, []byte(s.name)), DemoCreatorID, s.name, s.description, s.category,
			decimal.RequireFromString(s.price), s.installs, decimal.RequireFromString(s.rating),
		); err != nil {
			return fmt.Errorf("seed solution %q: %w", s.name, err)
		}
	}

	for i, p := range demoPricing {
		if _, err := pool.Exec(ctx, `
			INSERT INTO pricing_plans (name, tier, price_monthly, features, highlighted, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (tier) DO NOTHING
		`, p.name, p.tier, decimal.RequireFromString(p.price), p.features, p.highlighted, i+1); err != nil {
			return fmt.Errorf("seed pricing %q: %w", p.tier, err)
		}
	}

	for _, b := range demoBenchmarks {
		if _, err := pool.Exec(ctx, `
			INSERT INTO competitor_benchmarks (id, competitor, metric, their_value, our_value, unit)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING
		`, uuid.NewSHA1(demoCampaignNS, []byte(b.competitor+"/"+b.metric)), b.competitor, b.metric,
			decimal.RequireFromString(b.their), decimal.RequireFromString(b.ours), b.unit,
		); err != nil {
			return fmt.Errorf("seed benchmark %q: %w", b.metric, err)
		}
	}

	log.Info("demo data seeded",
		zap.Int("campaigns", len(demoCampaigns)),
		zap.Int("listings", len(demoListings)),
		zap.Int("solutions", len(demoSolutions)),
	)
	return nil
}

// BackfillROAS recomputes roas from spend and revenue for every campaign.
func BackfillROAS(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) (int, error) {
	rows, err := pool.Query(ctx, `SELECT id, spend, revenue, roas FROM campaigns`)
	if err != nil {
		return 0, err
	}

	type fix struct {
		id   uuid.UUID
		roas decimal.Decimal
	}
	var fixes []fix
	for rows.Next() {
		var (
			id                   uuid.UUID
			spend, revenue, roas decimal.Decimal
		)
		if err := rows.Scan(&id, &spend, &revenue, &roas); err != nil {
			rows.Close()
			return 0, err
		}
		if want := models.ComputeROAS(revenue, spend); !want.Equal(roas) {
			fixes = append(fixes, fix{id: id, roas: want})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, f := range fixes {
		if _, err := pool.Exec(ctx, `UPDATE campaigns SET roas = $1, updated_at = now() WHERE id = $2`, f.roas, f.id); err != nil {
			return 0, err
		}
		log.Info("roas backfilled", zap.String("campaign_id", f.id.String()), zap.String("roas", f.roas.String()))
	}
	return len(fixes), nil
}
