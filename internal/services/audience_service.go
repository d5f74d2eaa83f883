package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
)

type AudienceService struct {
	audienceRepo AudienceStore
	campaignRepo CampaignStore
	log          *zap.Logger
}

func NewAudienceService(audienceRepo AudienceStore, campaignRepo CampaignStore, log *zap.Logger) *AudienceService {
	return &AudienceService{
		audienceRepo: audienceRepo,
		campaignRepo: campaignRepo,
		log:          log,
	}
}

func (s *AudienceService) ByCampaign(ctx context.Context, campaignID, userID uuid.UUID) ([]models.AudienceInsight, error) {
	c, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, models.ErrNotFound
	}
	return s.audienceRepo.ByCampaign(ctx, campaignID)
}

// TopSegments folds every insight of the user's campaigns by segment.
func (s *AudienceService) TopSegments(ctx context.Context, userID uuid.UUID, limit int) ([]models.SegmentStats, error) {
	insights, err := s.audienceRepo.ByUser(ctx, &userID)
	if err != nil {
		return nil, err
	}

	segments := models.GroupSegments(insights)
	if segments == nil {
		segments = []models.SegmentStats{}
	}
	if limit > 0 && len(segments) > limit {
		segments = segments[:limit]
	}
	return segments, nil
}
