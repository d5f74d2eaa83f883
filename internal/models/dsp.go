package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DSP performance statuses
const (
	DSPStatusScaling    = "scaling"
	DSPStatusOptimizing = "optimizing"
	DSPStatusSaturated  = "saturated"
)

var (
	dspSaturatedTrend = decimal.NewFromInt(-5)
	dspScalingROAS    = decimal.NewFromInt(3)
)

// DSPPerformance is one append-only snapshot of a DSP inside a campaign.
type DSPPerformance struct {
	ID         uuid.UUID       `json:"id"`
	CampaignID uuid.UUID       `json:"campaign_id"`
	DSPName    string          `json:"dsp_name"`
	Spend      decimal.Decimal `json:"spend"`
	ECPM       decimal.Decimal `json:"ecpm"`
	Trend      decimal.Decimal `json:"trend"` // percent, signed
	ROAS       decimal.Decimal `json:"roas"`
	Status     string          `json:"status"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// ClassifyDSP derives the snapshot status from ROAS and trend.
func ClassifyDSP(roas, trend decimal.Decimal) string {
	switch {
	case trend.LessThanOrEqual(dspSaturatedTrend):
		return DSPStatusSaturated
	case roas.GreaterThanOrEqual(dspScalingROAS) && !trend.IsNegative():
		return DSPStatusScaling
	default:
		return DSPStatusOptimizing
	}
}
