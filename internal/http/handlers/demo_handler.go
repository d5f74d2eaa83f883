package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/services"
)

// DemoHandler exposes the background jobs on demand behind the demo gate.
type DemoHandler struct {
	campaignService *services.CampaignService
	earningService  *services.EarningService
	dspService      *services.DSPService
	recService      *services.RecommendationService
	log             *zap.Logger
}

func NewDemoHandler(
	campaignService *services.CampaignService,
	earningService *services.EarningService,
	dspService *services.DSPService,
	recService *services.RecommendationService,
	log *zap.Logger,
) *DemoHandler {
	return &DemoHandler{
		campaignService: campaignService,
		earningService:  earningService,
		dspService:      dspService,
		recService:      recService,
		log:             log,
	}
}

func (h *DemoHandler) Overview(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.Overview(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	earnings, err := h.earningService.Overview(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.DemoOverviewResponse{
		Campaigns: campaigns,
		Earnings:  earnings,
	}})
}

func (h *DemoHandler) Simulate(c *fiber.Ctx) error {
	n, err := h.dspService.SimulateAll(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.SimulateResponse{Snapshots: n}})
}

func (h *DemoHandler) Distribute(c *fiber.Ctx) error {
	distributed, err := h.earningService.DistributePending(c.Context(), time.Now())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.DistributeResponse{Distributed: len(distributed)}})
}

func (h *DemoHandler) GenerateRecommendations(c *fiber.Ctx) error {
	n, err := h.recService.GenerateAll(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.GenerateResponse{Created: n}})
}

func (h *DemoHandler) CreditEarning(c *fiber.Ctx) error {
	var req dto.CreditEarningRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return badRequest(c, "invalid asset id")
	}

	earning, err := h.earningService.Credit(c.Context(), assetID, req.Amount)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: earning})
}
