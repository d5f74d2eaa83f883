package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Campaign statuses
const (
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// InitialCACMultiplier is applied to the target CAC to seed current_cac of a new campaign.
var InitialCACMultiplier = decimal.RequireFromString("1.5")

func IsValidCampaignStatus(status string) bool {
	switch status {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

type Campaign struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	CurrentCAC  decimal.Decimal `json:"current_cac"`
	PreviousCAC decimal.Decimal `json:"previous_cac"`
	TargetCAC   decimal.Decimal `json:"target_cac"`
	Spend       decimal.Decimal `json:"spend"`
	Revenue     decimal.Decimal `json:"revenue"`
	ROAS        decimal.Decimal `json:"roas"`
	DSPs        []string        `json:"dsps"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewCampaign builds an active campaign with its CAC seeded from the target.
func NewCampaign(userID uuid.UUID, name string, targetCAC decimal.Decimal, dsps []string) *Campaign {
	initial := targetCAC.Mul(InitialCACMultiplier)
	return &Campaign{
		UserID:      userID,
		Name:        name,
		Status:      CampaignStatusActive,
		CurrentCAC:  initial,
		PreviousCAC: initial,
		TargetCAC:   targetCAC,
		Spend:       decimal.Zero,
		Revenue:     decimal.Zero,
		ROAS:        decimal.Zero,
		DSPs:        UniqueDSPs(dsps),
	}
}

// ApplyMetrics rolls current CAC into previous and recomputes ROAS.
func (c *Campaign) ApplyMetrics(spend, revenue, currentCAC decimal.Decimal) {
	c.PreviousCAC = c.CurrentCAC
	c.CurrentCAC = currentCAC
	c.Spend = spend
	c.Revenue = revenue
	c.ROAS = ComputeROAS(revenue, spend)
}

// CACImprovement is the percent drop from previous to current CAC. Zero when there is no previous.
func (c *Campaign) CACImprovement() decimal.Decimal {
	if !c.PreviousCAC.IsPositive() {
		return decimal.Zero
	}
	return c.PreviousCAC.Sub(c.CurrentCAC).Div(c.PreviousCAC).Mul(decimal.NewFromInt(100)).Round(2)
}

// ComputeROAS returns revenue/spend rounded to 2 places, 0 for zero spend.
func ComputeROAS(revenue, spend decimal.Decimal) decimal.Decimal {
	if spend.IsZero() {
		return decimal.Zero
	}
	return revenue.Div(spend).Round(2)
}

// UniqueDSPs trims, drops empties and dedups while keeping the first occurrence order.
func UniqueDSPs(dsps []string) []string {
	out := make([]string, 0, len(dsps))
	seen := make(map[string]struct{}, len(dsps))
	for _, d := range dsps {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

type CampaignSummary struct {
	Total          int             `json:"total"`
	ByStatus       map[string]int  `json:"by_status"`
	TotalSpend     decimal.Decimal `json:"total_spend"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	BlendedROAS    decimal.Decimal `json:"blended_roas"`
	CACImprovement decimal.Decimal `json:"avg_cac_improvement_pct"`
}

// Summarize aggregates campaigns in memory.
func Summarize(campaigns []Campaign) CampaignSummary {
	s := CampaignSummary{
		ByStatus:       map[string]int{},
		TotalSpend:     decimal.Zero,
		TotalRevenue:   decimal.Zero,
		BlendedROAS:    decimal.Zero,
		CACImprovement: decimal.Zero,
	}

	improvement := decimal.Zero
	withPrevious := 0
	for i := range campaigns {
		c := &campaigns[i]
		s.Total++
		s.ByStatus[c.Status]++
		s.TotalSpend = s.TotalSpend.Add(c.Spend)
		s.TotalRevenue = s.TotalRevenue.Add(c.Revenue)
		if c.PreviousCAC.IsPositive() {
			improvement = improvement.Add(c.CACImprovement())
			withPrevious++
		}
	}

	s.BlendedROAS = ComputeROAS(s.TotalRevenue, s.TotalSpend)
	if withPrevious > 0 {
		s.CACImprovement = improvement.Div(decimal.NewFromInt(int64(withPrevious))).Round(2)
	}
	return s
}
