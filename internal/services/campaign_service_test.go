package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCampaignService() (*CampaignService, *fakeCampaigns, *fakeAudit) {
	campaigns := &fakeCampaigns{}
	audit := &fakeAudit{}
	return NewCampaignService(campaigns, audit, zap.NewNop()), campaigns, audit
}

func TestCampaignCreateSeedsCAC(t *testing.T) {
	svc, _, audit := newCampaignService()
	userID := uuid.New()

	c, err := svc.Create(context.Background(), userID, CreateCampaignInput{
		Name:      "  Spring Launch ",
		TargetCAC: dec("40"),
		DSPs:      []string{"trade_desk", "dv360", "trade_desk"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Spring Launch", c.Name)
	assert.True(t, c.CurrentCAC.Equal(dec("60")), "current_cac = %s", c.CurrentCAC)
	assert.True(t, c.PreviousCAC.Equal(dec("60")))
	assert.Equal(t, models.CampaignStatusActive, c.Status)
	assert.Equal(t, []string{"trade_desk", "dv360"}, c.DSPs)
	assert.Equal(t, []string{"campaign_created"}, audit.actions())
}

func TestCampaignCreateValidation(t *testing.T) {
	svc, _, _ := newCampaignService()

	tests := []struct {
		name string
		in   CreateCampaignInput
	}{
		{"empty name", CreateCampaignInput{Name: " ", TargetCAC: dec("10")}},
		{"zero target", CreateCampaignInput{Name: "x", TargetCAC: decimal.Zero}},
		{"negative target", CreateCampaignInput{Name: "x", TargetCAC: dec("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestCampaignOwnership(t *testing.T) {
	svc, _, _ := newCampaignService()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	c, err := svc.Create(ctx, owner, CreateCampaignInput{Name: "Mine", TargetCAC: dec("20")})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, c.ID, stranger)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, c.ID, stranger, models.CampaignStatusPaused)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID, stranger), models.ErrNotFound)

	got, err := svc.GetByID(ctx, c.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCampaignUpdateMetrics(t *testing.T) {
	svc, _, _ := newCampaignService()
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, CreateCampaignInput{Name: "Metrics", TargetCAC: dec("40"), DSPs: []string{"dv360"}})
	require.NoError(t, err)

	updated, err := svc.UpdateMetrics(ctx, c.ID, owner, UpdateMetricsInput{
		Spend:      dec("1000"),
		Revenue:    dec("3250"),
		CurrentCAC: dec("45"),
	})
	require.NoError(t, err)
	assert.True(t, updated.PreviousCAC.Equal(dec("60")))
	assert.True(t, updated.CurrentCAC.Equal(dec("45")))
	assert.True(t, updated.ROAS.Equal(dec("3.25")), "roas = %s", updated.ROAS)

	stored, err := svc.GetByID(ctx, c.ID, owner)
	require.NoError(t, err)
	assert.True(t, stored.ROAS.Equal(dec("3.25")))

	_, err = svc.UpdateMetrics(ctx, c.ID, owner, UpdateMetricsInput{Spend: dec("-1")})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCampaignUpdateStatusAndActivity(t *testing.T) {
	svc, _, _ := newCampaignService()
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, CreateCampaignInput{Name: "Status", TargetCAC: dec("10")})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, c.ID, owner, "archived")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	updated, err := svc.UpdateStatus(ctx, c.ID, owner, models.CampaignStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, updated.Status)

	logs, err := svc.Activity(ctx, c.ID, owner, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionCampaignStatusChanged, logs[0].Action)
	assert.Equal(t, models.ActionCampaignCreated, logs[1].Action)
	assert.Equal(t, "paused", logs[0].Meta["to"])

	logs, err = svc.Activity(ctx, c.ID, owner, []string{models.ActionCampaignCreated}, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActorUser, logs[0].ActorType)

	_, err = svc.Activity(ctx, c.ID, uuid.New(), nil, 10, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCampaignListAndSummary(t *testing.T) {
	svc, campaigns, _ := newCampaignService()
	ctx := context.Background()
	owner := uuid.New()

	campaigns.add(&models.Campaign{UserID: owner, Status: models.CampaignStatusActive,
		Spend: dec("1000"), Revenue: dec("3000"), PreviousCAC: dec("50"), CurrentCAC: dec("40")})
	campaigns.add(&models.Campaign{UserID: owner, Status: models.CampaignStatusPaused,
		Spend: dec("1000"), Revenue: dec("1000"), PreviousCAC: dec("100"), CurrentCAC: dec("80")})
	campaigns.add(&models.Campaign{UserID: uuid.New(), Status: models.CampaignStatusActive,
		Spend: dec("999"), Revenue: dec("1")})

	active := models.CampaignStatusActive
	list, err := svc.List(ctx, owner, repositories.CampaignFilter{Status: &active})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	bad := "running"
	_, err = svc.List(ctx, owner, repositories.CampaignFilter{Status: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[models.CampaignStatusPaused])
	assert.True(t, summary.TotalSpend.Equal(dec("2000")))
	assert.True(t, summary.BlendedROAS.Equal(dec("2")))
	assert.True(t, summary.CACImprovement.Equal(dec("20")), "improvement = %s", summary.CACImprovement)
}
