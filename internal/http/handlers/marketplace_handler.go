package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

type MarketplaceHandler struct {
	marketplaceService *services.MarketplaceService
	log                *zap.Logger
}

func NewMarketplaceHandler(marketplaceService *services.MarketplaceService, log *zap.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceService: marketplaceService, log: log}
}

func (h *MarketplaceHandler) ListListings(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	listings, err := h.marketplaceService.ListListings(c.Context(), repositories.ListingFilter{
		Category: optionalQuery(c, "category"),
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{OK: true, Data: listings, Limit: limit, Offset: offset})
}

func (h *MarketplaceHandler) MyListings(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	listings, err := h.marketplaceService.MyListings(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{OK: true, Data: listings, Limit: limit, Offset: offset})
}

func (h *MarketplaceHandler) GetListing(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "invalid listing id")
	}

	listing, err := h.marketplaceService.GetListing(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: listing})
}

func (h *MarketplaceHandler) CreateListing(c *fiber.Ctx) error {
	var req dto.CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	listing, err := h.marketplaceService.CreateListing(c.Context(), middleware.GetUserID(c), services.CreateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		DataType:     req.DataType,
		PriceMonthly: req.PriceMonthly,
		RecordCount:  req.RecordCount,
		Status:       req.Status,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: listing})
}

func (h *MarketplaceHandler) ListSolutions(c *fiber.Ctx) error {
	solutions, err := h.marketplaceService.ListSolutions(c.Context(), optionalQuery(c, "category"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: solutions})
}

func (h *MarketplaceHandler) CreateSolution(c *fiber.Ctx) error {
	var req dto.CreateSolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	solution, err := h.marketplaceService.CreateSolution(c.Context(), middleware.GetUserID(c), services.CreateSolutionInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PriceMonthly: req.PriceMonthly,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: solution})
}

func (h *MarketplaceHandler) Pricing(c *fiber.Ctx) error {
	plans, err := h.marketplaceService.ListPricing(c.Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: plans})
}

func (h *MarketplaceHandler) Benchmarks(c *fiber.Ctx) error {
	benchmarks, err := h.marketplaceService.ListBenchmarks(c.Context(), optionalQuery(c, "metric"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: benchmarks})
}
