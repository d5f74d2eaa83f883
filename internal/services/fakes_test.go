package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
)

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) ListByEntity(_ context.Context, filter repositories.AuditFilter) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AuditLog{}
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.EntityType != filter.EntityType || e.EntityID == nil || *e.EntityID != filter.EntityID {
			continue
		}
		if len(filter.Actions) > 0 && !slices.Contains(filter.Actions, e.Action) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeUsers) UpsertByEmail(_ context.Context, email, name, role string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			if name != "" {
				u.Name = name
			}
			u.LastActiveAt = time.Now()
			return u, nil
		}
	}
	u := &models.User{ID: uuid.New(), Email: email, Name: name, Role: role, CreatedAt: time.Now(), LastActiveAt: time.Now()}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) CompleteOnboarding(_ context.Context, id uuid.UUID, role string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Role = role
	u.Onboarded = true
	return u, nil
}

func (f *fakeUsers) UpdateLastActive(_ context.Context, id uuid.UUID) error {
	u, ok := f.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	u.LastActiveAt = time.Now()
	return nil
}

func (f *fakeUsers) ListWithActiveCampaigns(context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeCampaigns struct {
	mu   sync.Mutex
	rows []*models.Campaign
}

func (f *fakeCampaigns) add(c *models.Campaign) *models.Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.rows = append(f.rows, c)
	return c
}

func (f *fakeCampaigns) Create(_ context.Context, c *models.Campaign) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.add(c)
	return nil
}

func (f *fakeCampaigns) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeCampaigns) UpdateMetrics(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == c.ID {
			cp := *c
			f.rows[i] = &cp
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeCampaigns) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeCampaigns) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeCampaigns) List(ctx context.Context, filter repositories.CampaignFilter) ([]models.Campaign, error) {
	return f.ListAll(ctx, filter.UserID, filter.Status)
}

func (f *fakeCampaigns) ListAll(_ context.Context, userID *uuid.UUID, status *string) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Campaign{}
	for _, c := range f.rows {
		if userID != nil && c.UserID != *userID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

type fakeDSP struct {
	mu   sync.Mutex
	rows []models.DSPPerformance
}

func (f *fakeDSP) Create(_ context.Context, p *models.DSPPerformance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.RecordedAt = time.Now()
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakeDSP) Latest(_ context.Context, campaignID uuid.UUID) ([]models.DSPPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := map[string]models.DSPPerformance{}
	var order []string
	for _, p := range f.rows {
		if p.CampaignID != campaignID {
			continue
		}
		if _, ok := latest[p.DSPName]; !ok {
			order = append(order, p.DSPName)
		}
		latest[p.DSPName] = p
	}
	out := []models.DSPPerformance{}
	for _, name := range order {
		out = append(out, latest[name])
	}
	return out, nil
}

func (f *fakeDSP) History(_ context.Context, campaignID uuid.UUID, dspName *string, limit int) ([]models.DSPPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.DSPPerformance{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		p := f.rows[i]
		if p.CampaignID != campaignID || (dspName != nil && p.DSPName != *dspName) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEarnings struct {
	mu   sync.Mutex
	rows []*models.Earning
}

func (f *fakeEarnings) Create(_ context.Context, e *models.Earning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	cp := *e
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeEarnings) List(ctx context.Context, filter repositories.EarningFilter) ([]models.Earning, error) {
	all, _ := f.ListAll(ctx, filter.OwnerUserID)
	out := []models.Earning{}
	for _, e := range all {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEarnings) ListAll(_ context.Context, ownerID *uuid.UUID) ([]models.Earning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Earning{}
	for _, e := range f.rows {
		if ownerID != nil && e.OwnerUserID != *ownerID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEarnings) DistributePending(_ context.Context, cutoff, now time.Time) ([]models.Earning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Earning{}
	for _, e := range f.rows {
		if !e.DueForDistribution(cutoff) {
			continue
		}
		e.Status = models.EarningStatusDistributed
		at := now
		e.DistributedAt = &at
		out = append(out, *e)
	}
	return out, nil
}

type fakeRecommendations struct {
	mu   sync.Mutex
	rows []*models.Recommendation
}

func (f *fakeRecommendations) Create(_ context.Context, rec *models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	cp := *rec
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRecommendations) GetByID(_ context.Context, id uuid.UUID) (*models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRecommendations) ListByUser(_ context.Context, userID uuid.UUID, status *string) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Recommendation{}
	for _, r := range f.rows {
		if r.UserID == userID && (status == nil || r.Status == *status) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecommendations) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeRecommendations) HasOpen(_ context.Context, userID uuid.UUID, campaignID *uuid.UUID, recType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID != userID || r.Type != recType || !r.IsOpen() {
			continue
		}
		if (r.CampaignID == nil) != (campaignID == nil) {
			continue
		}
		if campaignID == nil || *r.CampaignID == *campaignID {
			return true, nil
		}
	}
	return false, nil
}

type fakeChat struct {
	mu   sync.Mutex
	rows []models.ChatMessage
}

func (f *fakeChat) Create(_ context.Context, m *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeChat) ListBySession(_ context.Context, userID, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChatMessage{}
	for _, m := range f.rows {
		if m.UserID == userID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeChat) Sessions(_ context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := map[uuid.UUID]int{}
	out := []models.ChatSession{}
	for _, m := range f.rows {
		if m.UserID != userID {
			continue
		}
		i, ok := idx[m.SessionID]
		if !ok {
			i = len(out)
			idx[m.SessionID] = i
			out = append(out, models.ChatSession{SessionID: m.SessionID})
		}
		out[i].MessageCount++
		out[i].LastMessageAt = m.CreatedAt
	}
	return out, nil
}

func (f *fakeChat) messages() []models.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChatMessage(nil), f.rows...)
}

type fakeMarketplace struct {
	listings  []*models.MarketplaceListing
	solutions []*models.Solution
}

func (f *fakeMarketplace) CreateListing(_ context.Context, l *models.MarketplaceListing) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	cp := *l
	f.listings = append(f.listings, &cp)
	return nil
}

func (f *fakeMarketplace) GetListing(_ context.Context, id uuid.UUID) (*models.MarketplaceListing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeMarketplace) ListListings(_ context.Context, filter repositories.ListingFilter) ([]models.MarketplaceListing, error) {
	out := []models.MarketplaceListing{}
	for _, l := range f.listings {
		if filter.OwnerUserID != nil && l.OwnerUserID != *filter.OwnerUserID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && l.Category != *filter.Category {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeMarketplace) CreateSolution(_ context.Context, s *models.Solution) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	f.solutions = append(f.solutions, &cp)
	return nil
}

func (f *fakeMarketplace) ListSolutions(context.Context, *string) ([]models.Solution, error) {
	out := []models.Solution{}
	for _, s := range f.solutions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeMarketplace) ListPricing(context.Context) ([]models.PricingPlan, error) {
	return []models.PricingPlan{}, nil
}

func (f *fakeMarketplace) ListBenchmarks(context.Context, *string) ([]models.CompetitorBenchmark, error) {
	return []models.CompetitorBenchmark{}, nil
}

type fakeAudience struct {
	rows      []models.AudienceInsight
	campaigns *fakeCampaigns
}

func (f *fakeAudience) ByCampaign(_ context.Context, campaignID uuid.UUID) ([]models.AudienceInsight, error) {
	out := []models.AudienceInsight{}
	for _, in := range f.rows {
		if in.CampaignID == campaignID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeAudience) ByUser(ctx context.Context, userID *uuid.UUID) ([]models.AudienceInsight, error) {
	owned, _ := f.campaigns.ListAll(ctx, userID, nil)
	ids := map[uuid.UUID]bool{}
	for _, c := range owned {
		ids[c.ID] = true
	}
	out := []models.AudienceInsight{}
	for _, in := range f.rows {
		if ids[in.CampaignID] {
			out = append(out, in)
		}
	}
	return out, nil
}
