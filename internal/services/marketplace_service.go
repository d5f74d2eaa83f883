package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

type MarketplaceService struct {
	marketplaceRepo MarketplaceStore
	auditRepo       AuditStore
	log             *zap.Logger
}

func NewMarketplaceService(marketplaceRepo MarketplaceStore, auditRepo AuditStore, log *zap.Logger) *MarketplaceService {
	return &MarketplaceService{
		marketplaceRepo: marketplaceRepo,
		auditRepo:       auditRepo,
		log:             log,
	}
}

// ListListings shows active listings only.
func (s *MarketplaceService) ListListings(ctx context.Context, f repositories.ListingFilter) ([]models.MarketplaceListing, error) {
	active := models.ListingStatusActive
	f.Status = &active
	f.OwnerUserID = nil
	f.Search = strings.TrimSpace(f.Search)
	return s.marketplaceRepo.ListListings(ctx, f)
}

// GetListing hides drafts from everyone but the owner.
func (s *MarketplaceService) GetListing(ctx context.Context, id, userID uuid.UUID) (*models.MarketplaceListing, error) {
	l, err := s.marketplaceRepo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != models.ListingStatusActive && l.OwnerUserID != userID {
		return nil, models.ErrNotFound
	}
	return l, nil
}

func (s *MarketplaceService) MyListings(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.MarketplaceListing, error) {
	return s.marketplaceRepo.ListListings(ctx, repositories.ListingFilter{
		OwnerUserID: &ownerID,
		Limit:       limit,
		Offset:      offset,
	})
}

type CreateListingInput struct {
	Title        string
	Description  string
	Category     string
	DataType     string
	PriceMonthly decimal.Decimal
	RecordCount  int64
	Status       string
}

func (s *MarketplaceService) CreateListing(ctx context.Context, ownerID uuid.UUID, in CreateListingInput) (*models.MarketplaceListing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if in.PriceMonthly.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", models.ErrInvalidInput)
	}
	if in.RecordCount < 0 {
		return nil, fmt.Errorf("%w: record_count must not be negative", models.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = models.ListingStatusActive
	}
	if status != models.ListingStatusActive && status != models.ListingStatusDraft {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, status)
	}

	l := &models.MarketplaceListing{
		OwnerUserID:  ownerID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Category:     strings.TrimSpace(in.Category),
		DataType:     strings.TrimSpace(in.DataType),
		PriceMonthly: in.PriceMonthly,
		RecordCount:  in.RecordCount,
		Status:       status,
	}
	if err := s.marketplaceRepo.CreateListing(ctx, l); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(ownerID, models.ActionListingCreated, models.EntityListing, l.ID, nil))

	return l, nil
}

func (s *MarketplaceService) ListSolutions(ctx context.Context, category *string) ([]models.Solution, error) {
	return s.marketplaceRepo.ListSolutions(ctx, category)
}

type CreateSolutionInput struct {
	Name         string
	Description  string
	Category     string
	PriceMonthly decimal.Decimal
}

func (s *MarketplaceService) CreateSolution(ctx context.Context, creatorID uuid.UUID, in CreateSolutionInput) (*models.Solution, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if in.PriceMonthly.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", models.ErrInvalidInput)
	}

	sol := &models.Solution{
		CreatorUserID: creatorID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		PriceMonthly:  in.PriceMonthly,
	}
	if err := s.marketplaceRepo.CreateSolution(ctx, sol); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(creatorID, models.ActionSolutionCreated, models.EntitySolution, sol.ID, nil))

	return sol, nil
}

func (s *MarketplaceService) ListPricing(ctx context.Context) ([]models.PricingPlan, error) {
	return s.marketplaceRepo.ListPricing(ctx)
}

func (s *MarketplaceService) ListBenchmarks(ctx context.Context, metric *string) ([]models.CompetitorBenchmark, error) {
	return s.marketplaceRepo.ListBenchmarks(ctx, metric)
}
