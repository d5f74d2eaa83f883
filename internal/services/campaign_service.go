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

type CampaignService struct {
	campaignRepo CampaignStore
	auditRepo    AuditStore
	log          *zap.Logger
}

func NewCampaignService(
	campaignRepo CampaignStore,
	auditRepo AuditStore,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

type CreateCampaignInput struct {
	Name      string
	TargetCAC decimal.Decimal
	DSPs      []string
}

func (s *CampaignService) Create(ctx context.Context, userID uuid.UUID, in CreateCampaignInput) (*models.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if !in.TargetCAC.IsPositive() {
		return nil, fmt.Errorf("%w: target_cac must be positive", models.ErrInvalidInput)
	}

	c := models.NewCampaign(userID, name, in.TargetCAC, in.DSPs)
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(userID, models.ActionCampaignCreated, models.EntityCampaign, c.ID,
		map[string]any{"target_cac": in.TargetCAC.String()}))

	return c, nil
}

// GetByID hides campaigns owned by other users behind ErrNotFound.
func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (s *CampaignService) List(ctx context.Context, userID uuid.UUID, f repositories.CampaignFilter) ([]models.Campaign, error) {
	if f.Status != nil && !models.IsValidCampaignStatus(*f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *f.Status)
	}
	f.UserID = &userID
	return s.campaignRepo.List(ctx, f)
}

type UpdateMetricsInput struct {
	Spend      decimal.Decimal
	Revenue    decimal.Decimal
	CurrentCAC decimal.Decimal
}

func (s *CampaignService) UpdateMetrics(ctx context.Context, id uuid.UUID, userID uuid.UUID, in UpdateMetricsInput) (*models.Campaign, error) {
	if in.Spend.IsNegative() || in.Revenue.IsNegative() || in.CurrentCAC.IsNegative() {
		return nil, fmt.Errorf("%w: metrics must not be negative", models.ErrInvalidInput)
	}

	c, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	c.ApplyMetrics(in.Spend, in.Revenue, in.CurrentCAC)
	if err := s.campaignRepo.UpdateMetrics(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(userID, models.ActionCampaignMetrics, models.EntityCampaign, c.ID, map[string]any{
		"spend":       c.Spend.String(),
		"revenue":     c.Revenue.String(),
		"current_cac": c.CurrentCAC.String(),
	}))

	return c, nil
}

func (s *CampaignService) UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status string) (*models.Campaign, error) {
	if !models.IsValidCampaignStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, status)
	}

	c, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}

	if err := s.campaignRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(userID, models.ActionCampaignStatusChanged, models.EntityCampaign, c.ID,
		map[string]any{"from": c.Status, "to": status}))

	c.Status = status
	return c, nil
}

func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(userID, models.ActionCampaignDeleted, models.EntityCampaign, id, nil))
	return nil
}

func (s *CampaignService) Summary(ctx context.Context, userID uuid.UUID) (models.CampaignSummary, error) {
	campaigns, err := s.campaignRepo.ListAll(ctx, &userID, nil)
	if err != nil {
		return models.CampaignSummary{}, err
	}
	return models.Summarize(campaigns), nil
}

// Activity returns the audit trail of an owned campaign, newest first, optionally narrowed to actions.
func (s *CampaignService) Activity(ctx context.Context, id, userID uuid.UUID, actions []string, limit, offset int) ([]models.AuditLog, error) {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListByEntity(ctx, repositories.AuditFilter{
		EntityType: models.EntityCampaign,
		EntityID:   id,
		Actions:    actions,
		Limit:      limit,
		Offset:     offset,
	})
}

// Overview aggregates every campaign on the platform.
func (s *CampaignService) Overview(ctx context.Context) (models.CampaignSummary, error) {
	campaigns, err := s.campaignRepo.ListAll(ctx, nil, nil)
	if err != nil {
		return models.CampaignSummary{}, err
	}
	return models.Summarize(campaigns), nil
}
