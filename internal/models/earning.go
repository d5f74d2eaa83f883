package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Earning statuses
const (
	EarningStatusPending     = "pending"
	EarningStatusDistributed = "distributed"
)

type Earning struct {
	ID            uuid.UUID       `json:"id"`
	OwnerUserID   uuid.UUID       `json:"owner_user_id"`
	AssetID       uuid.UUID       `json:"asset_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	DistributedAt *time.Time      `json:"distributed_at,omitempty"`
}

// DueForDistribution reports whether a pending earning is older than the cutoff.
func (e *Earning) DueForDistribution(cutoff time.Time) bool {
	return e.Status == EarningStatusPending && e.CreatedAt.Before(cutoff)
}

type AssetEarnings struct {
	AssetID uuid.UUID       `json:"asset_id"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

type EarningSummary struct {
	Total       decimal.Decimal `json:"total"`
	Pending     decimal.Decimal `json:"pending"`
	Distributed decimal.Decimal `json:"distributed"`
	ByAsset     []AssetEarnings `json:"by_asset"`
}

// SummarizeEarnings sums by status and groups by asset, largest asset first.
func SummarizeEarnings(earnings []Earning) EarningSummary {
	s := EarningSummary{
		Total:       decimal.Zero,
		Pending:     decimal.Zero,
		Distributed: decimal.Zero,
		ByAsset:     []AssetEarnings{},
	}

	idx := map[uuid.UUID]int{}
	for _, e := range earnings {
		s.Total = s.Total.Add(e.Amount)
		switch e.Status {
		case EarningStatusPending:
			s.Pending = s.Pending.Add(e.Amount)
		case EarningStatusDistributed:
			s.Distributed = s.Distributed.Add(e.Amount)
		}

		i, ok := idx[e.AssetID]
		if !ok {
			i = len(s.ByAsset)
			idx[e.AssetID] = i
			s.ByAsset = append(s.ByAsset, AssetEarnings{AssetID: e.AssetID, Total: decimal.Zero})
		}
		s.ByAsset[i].Total = s.ByAsset[i].Total.Add(e.Amount)
		s.ByAsset[i].Count++
	}

	sort.SliceStable(s.ByAsset, func(i, j int) bool {
		return s.ByAsset[i].Total.GreaterThan(s.ByAsset[j].Total)
	})
	return s
}
