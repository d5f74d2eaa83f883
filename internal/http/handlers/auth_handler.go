package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/http/dto"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/services"
)

type AuthHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewAuthHandler(userService *services.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, log: log}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	session, err := h.userService.Login(c.Context(), req.Email, req.Name, req.Role)
	if err != nil {
		return fail(c, h.log, err)
	}

	h.log.Info("user logged in", zap.String("user_id", session.User.ID.String()))
	return c.JSON(dto.NewAuthResponse(session))
}

type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userService.GetMe(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

func (h *UserHandler) Ping(c *fiber.Ctx) error {
	if err := h.userService.Ping(c.Context(), middleware.GetUserID(c)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// CompleteOnboarding returns a new token because the role lives in the claims.
func (h *UserHandler) CompleteOnboarding(c *fiber.Ctx) error {
	var req dto.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	session, err := h.userService.CompleteOnboarding(c.Context(), middleware.GetUserID(c), req.Role)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewAuthResponse(session)})
}
