package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

type EarningService struct {
	earningRepo     EarningStore
	marketplaceRepo MarketplaceStore
	auditRepo       AuditStore
	publisher       events.Publisher
	distributeAfter time.Duration
	log             *zap.Logger
}

func NewEarningService(
	earningRepo EarningStore,
	marketplaceRepo MarketplaceStore,
	auditRepo AuditStore,
	publisher events.Publisher,
	distributeAfter time.Duration,
	log *zap.Logger,
) *EarningService {
	if distributeAfter <= 0 {
		distributeAfter = time.Hour
	}
	return &EarningService{
		earningRepo:     earningRepo,
		marketplaceRepo: marketplaceRepo,
		auditRepo:       auditRepo,
		publisher:       publisher,
		distributeAfter: distributeAfter,
		log:             log,
	}
}

func (s *EarningService) Create(ctx context.Context, ownerID, assetID uuid.UUID, amount decimal.Decimal) (*models.Earning, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}

	e := &models.Earning{
		OwnerUserID: ownerID,
		AssetID:     assetID,
		Amount:      amount,
		Status:      models.EarningStatusPending,
	}
	if err := s.earningRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.SystemAction(models.ActionEarningCreated, models.EntityEarning, e.ID,
		map[string]any{"asset_id": assetID.String(), "amount": amount.String()}))

	return e, nil
}

// Credit books an earning against a listing, paid to the listing's owner.
func (s *EarningService) Credit(ctx context.Context, assetID uuid.UUID, amount decimal.Decimal) (*models.Earning, error) {
	listing, err := s.marketplaceRepo.GetListing(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, listing.OwnerUserID, listing.ID, amount)
}

func (s *EarningService) List(ctx context.Context, ownerID uuid.UUID, f repositories.EarningFilter) ([]models.Earning, error) {
	if f.Status != nil && *f.Status != models.EarningStatusPending && *f.Status != models.EarningStatusDistributed {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *f.Status)
	}
	f.OwnerUserID = &ownerID
	return s.earningRepo.List(ctx, f)
}

func (s *EarningService) Summary(ctx context.Context, ownerID uuid.UUID) (models.EarningSummary, error) {
	earnings, err := s.earningRepo.ListAll(ctx, &ownerID)
	if err != nil {
		return models.EarningSummary{}, err
	}
	return models.SummarizeEarnings(earnings), nil
}

// DistributePending flips every pending earning older than the configured delay to distributed
// in one batch and notifies each owner.
func (s *EarningService) DistributePending(ctx context.Context, now time.Time) ([]models.Earning, error) {
	cutoff := now.Add(-s.distributeAfter)
	distributed, err := s.earningRepo.DistributePending(ctx, cutoff, now)
	if err != nil {
		return nil, fmt.Errorf("distribute earnings: %w", err)
	}
	if len(distributed) == 0 {
		return distributed, nil
	}

	type ownerTotal struct {
		count  int
		amount decimal.Decimal
	}
	byOwner := map[uuid.UUID]*ownerTotal{}
	order := []uuid.UUID{}
	for _, e := range distributed {
		t, ok := byOwner[e.OwnerUserID]
		if !ok {
			t = &ownerTotal{amount: decimal.Zero}
			byOwner[e.OwnerUserID] = t
			order = append(order, e.OwnerUserID)
		}
		t.count++
		t.amount = t.amount.Add(e.Amount)
	}

	for _, ownerID := range order {
		t := byOwner[ownerID]
		_ = s.auditRepo.Log(ctx, models.SystemAction(models.ActionEarningsDistributed, models.EntityUser, ownerID,
			map[string]any{"count": t.count, "amount": t.amount.String()}))
		if s.publisher != nil {
			_ = s.publisher.Publish(ctx, events.Stream, events.Event{
				Type: events.EventEarningDistributed,
				Payload: map[string]any{
					"user_id": ownerID.String(),
					"count":   t.count,
					"amount":  t.amount.String(),
				},
			})
		}
	}

	s.log.Info("earnings distributed",
		zap.Int("count", len(distributed)),
		zap.Int("owners", len(order)),
		zap.Time("cutoff", cutoff),
	)
	return distributed, nil
}

// Overview aggregates every earning on the platform.
func (s *EarningService) Overview(ctx context.Context) (models.EarningSummary, error) {
	earnings, err := s.earningRepo.ListAll(ctx, nil)
	if err != nil {
		return models.EarningSummary{}, err
	}
	return models.SummarizeEarnings(earnings), nil
}
