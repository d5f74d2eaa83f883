package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing statuses
const (
	ListingStatusActive = "active"
	ListingStatusDraft  = "draft"
)

// MarketplaceListing is a data asset a data owner offers to media buyers.
type MarketplaceListing struct {
	ID           uuid.UUID       `json:"id"`
	OwnerUserID  uuid.UUID       `json:"owner_user_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	DataType     string          `json:"data_type"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	RecordCount  int64           `json:"record_count"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Solution is an add-on published by a solution creator.
type Solution struct {
	ID            uuid.UUID       `json:"id"`
	CreatorUserID uuid.UUID       `json:"creator_user_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	PriceMonthly  decimal.Decimal `json:"price_monthly"`
	Installs      int             `json:"installs"`
	Rating        decimal.Decimal `json:"rating"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PricingPlan struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Tier         string          `json:"tier"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	Features     []string        `json:"features"`
	Highlighted  bool            `json:"highlighted"`
	SortOrder    int             `json:"sort_order"`
}

type CompetitorBenchmark struct {
	ID         uuid.UUID       `json:"id"`
	Competitor string          `json:"competitor"`
	Metric     string          `json:"metric"`
	TheirValue decimal.Decimal `json:"their_value"`
	OurValue   decimal.Decimal `json:"our_value"`
	Unit       string          `json:"unit"`
}
