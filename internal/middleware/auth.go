package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/auth"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/rbac"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

func deny(c *fiber.Ctx, status int, msg string) error {
	body := fiber.Map{"error": msg}
	if id := GetRequestID(c); id != "" {
		body["request_id"] = id
	}
	return c.Status(status).JSON(body)
}

// bearerToken extracts the token from "Authorization: Bearer <token>", scheme case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return deny(c, fiber.StatusUnauthorized, "missing authorization header")
		}

		tokenStr, ok := bearerToken(header)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "invalid authorization format")
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt rejected", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			return deny(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxEmail, claims.Email)
		c.Locals(CtxRole, claims.Role)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func GetEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(CtxEmail).(string)
	return email
}

func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(CtxRole).(string)
	return role
}

// RequirePermission gates a route on the token's role. Admin emails bypass.
func RequirePermission(cfg *config.Config, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.IsAdmin(GetEmail(c)) || rbac.HasPermission(GetRole(c), permission) {
			return c.Next()
		}
		return deny(c, fiber.StatusForbidden, "insufficient role")
	}
}
