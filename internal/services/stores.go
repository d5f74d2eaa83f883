package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

// Narrow views of the repositories, satisfied by the pgx implementations.

type UserStore interface {
	UpsertByEmail(ctx context.Context, email, name, role string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
	UpdateLastActive(ctx context.Context, id uuid.UUID) error
	ListWithActiveCampaigns(ctx context.Context) ([]uuid.UUID, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
	ListByEntity(ctx context.Context, f repositories.AuditFilter) ([]models.AuditLog, error)
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	UpdateMetrics(ctx context.Context, c *models.Campaign) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error)
	ListAll(ctx context.Context, userID *uuid.UUID, status *string) ([]models.Campaign, error)
}

type DSPStore interface {
	Create(ctx context.Context, p *models.DSPPerformance) error
	Latest(ctx context.Context, campaignID uuid.UUID) ([]models.DSPPerformance, error)
	History(ctx context.Context, campaignID uuid.UUID, dspName *string, limit int) ([]models.DSPPerformance, error)
}

type EarningStore interface {
	Create(ctx context.Context, e *models.Earning) error
	List(ctx context.Context, f repositories.EarningFilter) ([]models.Earning, error)
	ListAll(ctx context.Context, ownerID *uuid.UUID) ([]models.Earning, error)
	DistributePending(ctx context.Context, cutoff, now time.Time) ([]models.Earning, error)
}

type RecommendationStore interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]models.Recommendation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	HasOpen(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID, recType string) (bool, error)
}

type ChatStore interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	ListBySession(ctx context.Context, userID, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error)
	Sessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error)
}

type AudienceStore interface {
	ByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.AudienceInsight, error)
	ByUser(ctx context.Context, userID *uuid.UUID) ([]models.AudienceInsight, error)
}

type MarketplaceStore interface {
	CreateListing(ctx context.Context, l *models.MarketplaceListing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.MarketplaceListing, error)
	ListListings(ctx context.Context, f repositories.ListingFilter) ([]models.MarketplaceListing, error)
	CreateSolution(ctx context.Context, s *models.Solution) error
	ListSolutions(ctx context.Context, category *string) ([]models.Solution, error)
	ListPricing(ctx context.Context) ([]models.PricingPlan, error)
	ListBenchmarks(ctx context.Context, metric *string) ([]models.CompetitorBenchmark, error)
}

var (
	_ UserStore           = (*repositories.UserRepo)(nil)
	_ AuditStore          = (*repositories.AuditRepo)(nil)
	_ CampaignStore       = (*repositories.CampaignRepo)(nil)
	_ DSPStore            = (*repositories.DSPRepo)(nil)
	_ EarningStore        = (*repositories.EarningRepo)(nil)
	_ RecommendationStore = (*repositories.RecommendationRepo)(nil)
	_ ChatStore           = (*repositories.ChatRepo)(nil)
	_ AudienceStore       = (*repositories.AudienceRepo)(nil)
	_ MarketplaceStore    = (*repositories.MarketplaceRepo)(nil)
)
