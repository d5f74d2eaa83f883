package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

type OnboardingRequest struct {
	Role string `json:"role"`
}

type CreateCampaignRequest struct {
	Name      string          `json:"name"`
	TargetCAC decimal.Decimal `json:"target_cac"`
	DSPs      []string        `json:"dsps"`
}

type UpdateMetricsRequest struct {
	Spend      decimal.Decimal `json:"spend"`
	Revenue    decimal.Decimal `json:"revenue"`
	CurrentCAC decimal.Decimal `json:"current_cac"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type RecordDSPRequest struct {
	DSPName string          `json:"dsp_name"`
	Spend   decimal.Decimal `json:"spend"`
	ECPM    decimal.Decimal `json:"ecpm"`
	Trend   decimal.Decimal `json:"trend"`
	ROAS    decimal.Decimal `json:"roas"`
}

type ChatRequest struct {
	SessionID   string `json:"session_id,omitempty"`
	Message     string `json:"message"`
	PageContext string `json:"page_context,omitempty"`
}

type CreateListingRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	DataType     string          `json:"data_type"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
	RecordCount  int64           `json:"record_count"`
	Status       string          `json:"status,omitempty"`
}

type CreateSolutionRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	PriceMonthly decimal.Decimal `json:"price_monthly"`
}

type CreditEarningRequest struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// WebhookEnvelope is only used to pick an event type out of JSON payloads for logging.
type WebhookEnvelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
