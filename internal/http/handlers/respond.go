package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

// fail maps domain errors to status codes. Anything unexpected is logged and hidden.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	reqID := middleware.GetRequestID(c)

	status := fiber.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, models.ErrNotFound):
		status, msg = fiber.StatusNotFound, "not found"
	case errors.Is(err, models.ErrForbidden):
		status, msg = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidTransition):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrLLMUnavailable):
		status, msg = fiber.StatusBadGateway, "assistant is unavailable, try again later"
	default:
		log.Error("request failed",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, RequestID: reqID})
}

func badRequest(c *fiber.Ctx, msg string) error {
	reqID := middleware.GetRequestID(c)
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: reqID})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// pagination reads limit/offset and clamps the limit the same way the repositories do,
// so list responses echo the page size actually served.
func pagination(c *fiber.Ctx) (int, int) {
	limit := repositories.ClampLimit(c.QueryInt("limit", repositories.DefaultPageLimit),
		repositories.DefaultPageLimit, repositories.MaxPageLimit)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}
