package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/services"
)

type RecommendationHandler struct {
	recService *services.RecommendationService
	log        *zap.Logger
}

func NewRecommendationHandler(recService *services.RecommendationService, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recService: recService, log: log}
}

func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	recs, err := h.recService.List(c.Context(), middleware.GetUserID(c), optionalQuery(c, "status"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: recs})
}

func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	created, err := h.recService.Generate(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: created})
}

func (h *RecommendationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid recommendation id")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	rec, err := h.recService.UpdateStatus(c.Context(), id, middleware.GetUserID(c), req.Status)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rec})
}
