package dto

import (
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/services"
)

type AuthResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
}

func NewAuthResponse(s *services.Session) AuthResponse {
	return AuthResponse{Token: s.Token, User: s.User, IsAdmin: s.IsAdmin}
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ListResponse struct {
	OK     bool `json:"ok"`
	Data   any  `json:"data"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}

type DemoOverviewResponse struct {
	Campaigns models.CampaignSummary `json:"campaigns"`
	Earnings  models.EarningSummary  `json:"earnings"`
}

type SimulateResponse struct {
	Snapshots int `json:"snapshots"`
}

type DistributeResponse struct {
	Distributed int `json:"distributed"`
}

type GenerateResponse struct {
	Created int `json:"created"`
}
