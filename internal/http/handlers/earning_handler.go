package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

type EarningHandler struct {
	earningService *services.EarningService
	log            *zap.Logger
}

func NewEarningHandler(earningService *services.EarningService, log *zap.Logger) *EarningHandler {
	return &EarningHandler{earningService: earningService, log: log}
}

func (h *EarningHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	earnings, err := h.earningService.List(c.Context(), middleware.GetUserID(c), repositories.EarningFilter{
		Status: optionalQuery(c, "status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{OK: true, Data: earnings, Limit: limit, Offset: offset})
}

func (h *EarningHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.earningService.Summary(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: summary})
}
