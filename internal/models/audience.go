package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AudienceInsight struct {
	ID          uuid.UUID       `json:"id"`
	CampaignID  uuid.UUID       `json:"campaign_id"`
	Segment     string          `json:"segment"`
	Channel     string          `json:"channel"`
	Reach       int64           `json:"reach"`
	Conversions int64           `json:"conversions"`
	Spend       decimal.Decimal `json:"spend"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SegmentStats struct {
	Segment        string          `json:"segment"`
	Reach          int64           `json:"reach"`
	Conversions    int64           `json:"conversions"`
	Spend          decimal.Decimal `json:"spend"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	CAC            decimal.Decimal `json:"cac"`
}

// GroupSegments folds insights by segment and sorts by conversion rate, best first.
func GroupSegments(insights []AudienceInsight) []SegmentStats {
	idx := map[string]int{}
	var out []SegmentStats
	for _, in := range insights {
		i, ok := idx[in.Segment]
		if !ok {
			i = len(out)
			idx[in.Segment] = i
			out = append(out, SegmentStats{Segment: in.Segment, Spend: decimal.Zero})
		}
		out[i].Reach += in.Reach
		out[i].Conversions += in.Conversions
		out[i].Spend = out[i].Spend.Add(in.Spend)
	}

	for i := range out {
		s := &out[i]
		s.ConversionRate = decimal.Zero
		s.CAC = decimal.Zero
		if s.Reach > 0 {
			s.ConversionRate = decimal.NewFromInt(s.Conversions).Div(decimal.NewFromInt(s.Reach)).Round(4)
		}
		if s.Conversions > 0 {
			s.CAC = s.Spend.Div(decimal.NewFromInt(s.Conversions)).Round(2)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConversionRate.GreaterThan(out[j].ConversionRate)
	})
	return out
}
