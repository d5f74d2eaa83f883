package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	dspService      *services.DSPService
	audienceService *services.AudienceService
	log             *zap.Logger
}

func NewCampaignHandler(
	campaignService *services.CampaignService,
	dspService *services.DSPService,
	audienceService *services.AudienceService,
	log *zap.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		dspService:      dspService,
		audienceService: audienceService,
		log:             log,
	}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	campaign, err := h.campaignService.Create(c.Context(), middleware.GetUserID(c), services.CreateCampaignInput{
		Name:      req.Name,
		TargetCAC: req.TargetCAC,
		DSPs:      req.DSPs,
	})
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	campaign, err := h.campaignService.GetByID(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repositories.CampaignFilter{
		Status: optionalQuery(c, "status"),
		Limit:  limit,
		Offset: offset,
	}

	campaigns, err := h.campaignService.List(c.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{OK: true, Data: campaigns, Limit: limit, Offset: offset})
}

func (h *CampaignHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.campaignService.Summary(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: summary})
}

func (h *CampaignHandler) UpdateMetrics(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	var req dto.UpdateMetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	campaign, err := h.campaignService.UpdateMetrics(c.Context(), id, middleware.GetUserID(c), services.UpdateMetricsInput{
		Spend:      req.Spend,
		Revenue:    req.Revenue,
		CurrentCAC: req.CurrentCAC,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	campaign, err := h.campaignService.UpdateStatus(c.Context(), id, middleware.GetUserID(c), req.Status)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	if err := h.campaignService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) Activity(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	var actions []string
	if raw := c.Query("action"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}
	}

	limit, offset := pagination(c)
	logs, err := h.campaignService.Activity(c.Context(), id, middleware.GetUserID(c), actions, limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{OK: true, Data: logs, Limit: limit, Offset: offset})
}

// --- DSP performance ---

func (h *CampaignHandler) LatestDSP(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	snaps, err := h.dspService.Latest(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: snaps})
}

func (h *CampaignHandler) DSPHistory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	limit := c.QueryInt("limit", 50)
	snaps, err := h.dspService.History(c.Context(), id, middleware.GetUserID(c), optionalQuery(c, "dsp"), limit)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: snaps})
}

func (h *CampaignHandler) RecordDSP(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	var req dto.RecordDSPRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	// ownership check before the append-only insert
	if _, err := h.campaignService.GetByID(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return fail(c, h.log, err)
	}

	snap := &models.DSPPerformance{
		CampaignID: id,
		DSPName:    req.DSPName,
		Spend:      req.Spend,
		ECPM:       req.ECPM,
		Trend:      req.Trend,
		ROAS:       req.ROAS,
	}
	if err := h.dspService.Record(c.Context(), snap); err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: snap})
}

// --- Audience ---

func (h *CampaignHandler) Audience(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid campaign id")
	}

	insights, err := h.audienceService.ByCampaign(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: insights})
}

func (h *CampaignHandler) TopSegments(c *fiber.Ctx) error {
	segments, err := h.audienceService.TopSegments(c.Context(), middleware.GetUserID(c), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: segments})
}
