package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/models"
)

var (
	minSimulatedSpend = decimal.NewFromInt(500)
	defaultBaseROAS   = decimal.NewFromInt(2)
	hundred           = decimal.NewFromInt(100)
)

type DSPService struct {
	dspRepo      DSPStore
	campaignRepo CampaignStore
	publisher    events.Publisher
	log          *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDSPService(
	dspRepo DSPStore,
	campaignRepo CampaignStore,
	publisher events.Publisher,
	rnd *rand.Rand,
	log *zap.Logger,
) *DSPService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DSPService{
		dspRepo:      dspRepo,
		campaignRepo: campaignRepo,
		publisher:    publisher,
		rnd:          rnd,
		log:          log,
	}
}

// Record classifies and appends a snapshot.
func (s *DSPService) Record(ctx context.Context, p *models.DSPPerformance) error {
	p.DSPName = strings.TrimSpace(p.DSPName)
	if p.DSPName == "" {
		return fmt.Errorf("%w: dsp_name is required", models.ErrInvalidInput)
	}
	if p.Spend.IsNegative() || p.ECPM.IsNegative() || p.ROAS.IsNegative() {
		return fmt.Errorf("%w: spend, ecpm and roas must not be negative", models.ErrInvalidInput)
	}
	p.Status = models.ClassifyDSP(p.ROAS, p.Trend)
	return s.dspRepo.Create(ctx, p)
}

func (s *DSPService) Latest(ctx context.Context, campaignID, userID uuid.UUID) ([]models.DSPPerformance, error) {
	if err := s.checkOwner(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.dspRepo.Latest(ctx, campaignID)
}

func (s *DSPService) History(ctx context.Context, campaignID, userID uuid.UUID, dspName *string, limit int) ([]models.DSPPerformance, error) {
	if err := s.checkOwner(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.dspRepo.History(ctx, campaignID, dspName, limit)
}

func (s *DSPService) checkOwner(ctx context.Context, campaignID, userID uuid.UUID) error {
	c, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return models.ErrNotFound
	}
	return nil
}

// Simulate writes one synthetic snapshot per DSP of the campaign.
func (s *DSPService) Simulate(ctx context.Context, c *models.Campaign) ([]models.DSPPerformance, error) {
	if len(c.DSPs) == 0 {
		return []models.DSPPerformance{}, nil
	}

	perDSP := c.Spend.Div(decimal.NewFromInt(int64(len(c.DSPs))))
	if perDSP.LessThan(minSimulatedSpend) {
		perDSP = minSimulatedSpend
	}
	base := c.ROAS
	if !base.IsPositive() {
		base = defaultBaseROAS
	}

	out := make([]models.DSPPerformance, 0, len(c.DSPs))
	for _, name := range c.DSPs {
		trend := s.uniform(-15, 25).Round(2)
		p := models.DSPPerformance{
			CampaignID: c.ID,
			DSPName:    name,
			Spend:      perDSP.Mul(s.uniform(0.8, 1.2)).Round(2),
			ECPM:       s.uniform(2, 12).Round(2),
			Trend:      trend,
			ROAS:       base.Mul(decimal.NewFromInt(1).Add(trend.Div(hundred))).Round(2),
		}
		if err := s.Record(ctx, &p); err != nil {
			return out, fmt.Errorf("record %s: %w", name, err)
		}
		out = append(out, p)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.Stream, events.Event{
			Type: events.EventDSPSnapshot,
			Payload: map[string]any{
				"user_id":     c.UserID.String(),
				"campaign_id": c.ID.String(),
				"snapshots":   len(out),
			},
		})
	}
	return out, nil
}

// SimulateAll runs Simulate for every active campaign. A failing campaign is logged and skipped.
func (s *DSPService) SimulateAll(ctx context.Context) (int, error) {
	active := models.CampaignStatusActive
	campaigns, err := s.campaignRepo.ListAll(ctx, nil, &active)
	if err != nil {
		return 0, err
	}

	total := 0
	for i := range campaigns {
		snaps, err := s.Simulate(ctx, &campaigns[i])
		total += len(snaps)
		if err != nil {
			s.log.Error("dsp simulation failed",
				zap.String("campaign_id", campaigns[i].ID.String()), zap.Error(err))
		}
	}
	return total, nil
}

func (s *DSPService) uniform(lo, hi float64) decimal.Decimal {
	s.mu.Lock()
	f := s.rnd.Float64()
	s.mu.Unlock()
	return decimal.NewFromFloat(lo + f*(hi-lo))
}
