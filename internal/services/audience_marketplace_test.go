package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

func TestAudienceTopSegments(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	campaigns := &fakeCampaigns{}
	mine := campaigns.add(&models.Campaign{UserID: owner})
	theirs := campaigns.add(&models.Campaign{UserID: uuid.New()})

	store := &fakeAudience{campaigns: campaigns, rows: []models.AudienceInsight{
		{CampaignID: mine.ID, Segment: "in-market auto", Reach: 1000, Conversions: 50, Spend: dec("500")},
		{CampaignID: mine.ID, Segment: "lookalike", Reach: 2000, Conversions: 20, Spend: dec("400")},
		{CampaignID: mine.ID, Segment: "in-market auto", Reach: 1000, Conversions: 30, Spend: dec("300")},
		{CampaignID: theirs.ID, Segment: "retargeting", Reach: 10, Conversions: 9, Spend: dec("1")},
	}}
	svc := NewAudienceService(store, campaigns, zap.NewNop())

	top, err := svc.TopSegments(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "in-market auto", top[0].Segment)
	assert.True(t, top[0].ConversionRate.Equal(dec("0.04")))
	assert.True(t, top[0].CAC.Equal(dec("10")))

	limited, err := svc.TopSegments(ctx, owner, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.ByCampaign(ctx, theirs.ID, owner)
	assert.ErrorIs(t, err, models.ErrNotFound)

	rows, err := svc.ByCampaign(ctx, mine.ID, owner)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestMarketplaceListings(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	market := &fakeMarketplace{}
	svc := NewMarketplaceService(market, &fakeAudit{}, zap.NewNop())

	_, err := svc.CreateListing(ctx, owner, CreateListingInput{Title: " "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.CreateListing(ctx, owner, CreateListingInput{Title: "x", PriceMonthly: dec("-1")})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.CreateListing(ctx, owner, CreateListingInput{Title: "x", Status: "archived"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	active, err := svc.CreateListing(ctx, owner, CreateListingInput{Title: "Retail intent", PriceMonthly: dec("499")})
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, active.Status)

	draft, err := svc.CreateListing(ctx, owner, CreateListingInput{Title: "Draft", Status: models.ListingStatusDraft})
	require.NoError(t, err)

	public, err := svc.ListListings(ctx, repositories.ListingFilter{OwnerUserID: &owner})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, active.ID, public[0].ID)

	mine, err := svc.MyListings(ctx, owner, 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.GetListing(ctx, draft.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	got, err := svc.GetListing(ctx, draft.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	_, err = svc.CreateSolution(ctx, owner, CreateSolutionInput{Name: ""})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	sol, err := svc.CreateSolution(ctx, owner, CreateSolutionInput{Name: "Shapley dashboard", PriceMonthly: dec("99")})
	require.NoError(t, err)
	assert.Equal(t, owner, sol.CreatorUserID)
}
