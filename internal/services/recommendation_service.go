package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/models"
)

var cacAlertRatio = decimal.RequireFromString("1.2")

type RecommendationService struct {
	recRepo      RecommendationStore
	campaignRepo CampaignStore
	dspRepo      DSPStore
	userRepo     UserStore
	publisher    events.Publisher
	log          *zap.Logger
}

func NewRecommendationService(
	recRepo RecommendationStore,
	campaignRepo CampaignStore,
	dspRepo DSPStore,
	userRepo UserStore,
	publisher events.Publisher,
	log *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		recRepo:      recRepo,
		campaignRepo: campaignRepo,
		dspRepo:      dspRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		log:          log,
	}
}

// Rules returns the recommendations a campaign qualifies for given its latest DSP snapshots.
func Rules(c *models.Campaign, latest []models.DSPPerformance) []models.Recommendation {
	var recs []models.Recommendation
	add := func(recType, priority, title, description string) {
		recs = append(recs, models.Recommendation{
			UserID:      c.UserID,
			CampaignID:  &c.ID,
			Type:        recType,
			Priority:    priority,
			Status:      models.RecommendationStatusNew,
			Title:       title,
			Description: description,
		})
	}

	if c.CurrentCAC.GreaterThan(c.TargetCAC.Mul(cacAlertRatio)) {
		add(models.RecommendationCACReduction, models.PriorityHigh,
			fmt.Sprintf("Reduce CAC on %s", c.Name),
			fmt.Sprintf("Current CAC $%s is more than 20%% above the $%s target. Tighten audiences or shift spend to better-converting segments.",
				c.CurrentCAC.StringFixed(2), c.TargetCAC.StringFixed(2)))
	}

	var saturated, scaling []string
	for _, p := range latest {
		switch p.Status {
		case models.DSPStatusSaturated:
			saturated = append(saturated, p.DSPName)
		case models.DSPStatusScaling:
			scaling = append(scaling, p.DSPName)
		}
	}

	if len(saturated) > 0 {
		add(models.RecommendationBudgetReallocation, models.PriorityHigh,
			fmt.Sprintf("Reallocate budget away from %s", saturated[0]),
			fmt.Sprintf("%d DSP(s) on %s show saturation (trend at or below -5%%). Move budget to DSPs that are still scaling.",
				len(saturated), c.Name))
	}

	if c.ROAS.GreaterThanOrEqual(decimal.NewFromInt(3)) && len(scaling) > 0 {
		add(models.RecommendationScaleBudget, models.PriorityMedium,
			fmt.Sprintf("Scale budget on %s", scaling[0]),
			fmt.Sprintf("%s returns %sx ROAS and %s is still scaling. Increase budget while returns hold.",
				c.Name, c.ROAS.StringFixed(2), scaling[0]))
	}

	if c.Spend.IsZero() {
		add(models.RecommendationLaunchCampaign, models.PriorityMedium,
			fmt.Sprintf("Launch %s", c.Name),
			"This campaign has no spend yet. Connect a DSP and start delivery to collect performance data.")
	}

	if len(c.DSPs) < 2 {
		add(models.RecommendationAddDSP, models.PriorityLow,
			fmt.Sprintf("Add a second DSP to %s", c.Name),
			"Running on a single DSP limits reach and makes CAC comparisons impossible. Add another DSP to diversify.")
	}

	return recs
}

// Generate evaluates every active campaign of the user and stores the new recommendations,
// skipping types that already have an open recommendation for the same campaign.
func (s *RecommendationService) Generate(ctx context.Context, userID uuid.UUID) ([]models.Recommendation, error) {
	active := models.CampaignStatusActive
	campaigns, err := s.campaignRepo.ListAll(ctx, &userID, &active)
	if err != nil {
		return nil, err
	}

	created := []models.Recommendation{}
	for i := range campaigns {
		c := &campaigns[i]
		latest, err := s.dspRepo.Latest(ctx, c.ID)
		if err != nil {
			return created, fmt.Errorf("latest dsp for %s: %w", c.ID, err)
		}

		for _, rec := range Rules(c, latest) {
			open, err := s.recRepo.HasOpen(ctx, userID, rec.CampaignID, rec.Type)
			if err != nil {
				return created, err
			}
			if open {
				continue
			}
			if err := s.recRepo.Create(ctx, &rec); err != nil {
				return created, err
			}
			created = append(created, rec)
		}
	}

	if len(created) > 0 && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.Stream, events.Event{
			Type: events.EventRecommendationCreated,
			Payload: map[string]any{
				"user_id": userID.String(),
				"count":   len(created),
			},
		})
	}

	models.SortByPriority(created)
	return created, nil
}

// GenerateAll runs Generate for every user with an active campaign.
func (s *RecommendationService) GenerateAll(ctx context.Context) (int, error) {
	userIDs, err := s.userRepo.ListWithActiveCampaigns(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range userIDs {
		recs, err := s.Generate(ctx, id)
		total += len(recs)
		if err != nil {
			s.log.Error("recommendation generation failed", zap.String("user_id", id.String()), zap.Error(err))
		}
	}
	return total, nil
}

func (s *RecommendationService) List(ctx context.Context, userID uuid.UUID, status *string) ([]models.Recommendation, error) {
	if status != nil && !models.IsValidRecommendationStatus(*status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *status)
	}
	recs, err := s.recRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	models.SortByPriority(recs)
	return recs, nil
}

func (s *RecommendationService) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) (*models.Recommendation, error) {
	if !models.IsValidRecommendationStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, status)
	}

	rec, err := s.recRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, models.ErrNotFound
	}
	if !models.IsValidRecommendationTransition(rec.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, rec.Status, status)
	}

	if err := s.recRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	rec.Status = status
	return rec, nil
}
