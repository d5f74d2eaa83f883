package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/cms"
	"github.com/precise-ai/backend/internal/http/dto"
)

type ContentSource interface {
	Page(ctx context.Context, slug string) (*cms.Page, error)
	Pages() []cms.PageRef
}

type ContentHandler struct {
	content ContentSource
	log     *zap.Logger
}

func NewContentHandler(content ContentSource, log *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, log: log}
}

func (h *ContentHandler) Pages(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.content.Pages()})
}

func (h *ContentHandler) Page(c *fiber.Ctx) error {
	page, err := h.content.Page(c.Context(), c.Params("slug"))
	if err != nil {
		return fail(c, h.log, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return c.JSON(dto.SuccessResponse{OK: true, Data: page})
}
