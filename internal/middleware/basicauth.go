package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/precise-ai/backend/internal/config"
)

// DemoGate puts a single static username/password in front of the demo routes.
func DemoGate(cfg *config.Config) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Users: map[string]string{cfg.BasicAuthUser: cfg.BasicAuthPassword},
		Realm: "Precise Demo",
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="Precise Demo"`)
			return deny(c, fiber.StatusUnauthorized, "unauthorized")
		},
	})
}
