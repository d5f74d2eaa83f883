package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/http/handlers"
	"github.com/precise-ai/backend/internal/middleware"
	"github.com/precise-ai/backend/internal/rbac"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	User           *handlers.UserHandler
	Campaign       *handlers.CampaignHandler
	Earning        *handlers.EarningHandler
	Recommendation *handlers.RecommendationHandler
	Chat           *handlers.ChatHandler
	Marketplace    *handlers.MarketplaceHandler
	Content        *handlers.ContentHandler
	Webhook        *handlers.WebhookHandler
	Demo           *handlers.DemoHandler
	WSHub          *handlers.WSHub
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	h Handlers,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", h.Auth.Login)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, middleware.RateLimit{Scope: "api", Limit: cfg.RateLimitPerMinute, Window: time.Minute}))

	api.Get("/content", h.Content.Pages)
	api.Get("/content/:slug", h.Content.Page)
	api.Get("/pricing", h.Marketplace.Pricing)
	api.Get("/benchmarks", h.Marketplace.Benchmarks)
	api.Post("/webhooks/:source", h.Webhook.Receive)

	// Demo controls (basic auth)
	demo := api.Group("/demo", middleware.DemoGate(cfg))
	demo.Get("/overview", h.Demo.Overview)
	demo.Post("/simulate", h.Demo.Simulate)
	demo.Post("/distribute", h.Demo.Distribute)
	demo.Post("/recommendations/generate", h.Demo.GenerateRecommendations)
	demo.Post("/earnings", h.Demo.CreditEarning)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	manageCampaigns := middleware.RequirePermission(cfg, rbac.PermManageCampaigns)
	viewInsights := middleware.RequirePermission(cfg, rbac.PermViewInsights)
	viewEarnings := middleware.RequirePermission(cfg, rbac.PermViewEarnings)

	// User
	protected.Get("/me", h.User.GetMe)
	protected.Post("/me/ping", h.User.Ping)
	protected.Post("/me/onboarding", h.User.CompleteOnboarding)

	// Campaigns
	protected.Get("/campaigns/summary", h.Campaign.Summary)
	protected.Post("/campaigns", manageCampaigns, h.Campaign.CreateCampaign)
	protected.Get("/campaigns", h.Campaign.ListCampaigns)
	protected.Get("/campaigns/:id", h.Campaign.GetCampaign)
	protected.Delete("/campaigns/:id", manageCampaigns, h.Campaign.DeleteCampaign)
	protected.Patch("/campaigns/:id/metrics", manageCampaigns, h.Campaign.UpdateMetrics)
	protected.Patch("/campaigns/:id/status", manageCampaigns, h.Campaign.UpdateStatus)
	protected.Get("/campaigns/:id/activity", h.Campaign.Activity)
	protected.Get("/campaigns/:id/dsp", h.Campaign.LatestDSP)
	protected.Post("/campaigns/:id/dsp", manageCampaigns, h.Campaign.RecordDSP)
	protected.Get("/campaigns/:id/dsp/history", h.Campaign.DSPHistory)
	protected.Get("/campaigns/:id/audience", viewInsights, h.Campaign.Audience)
	protected.Get("/audience/top-segments", viewInsights, h.Campaign.TopSegments)

	// Earnings
	protected.Get("/earnings", viewEarnings, h.Earning.List)
	protected.Get("/earnings/summary", viewEarnings, h.Earning.Summary)

	// Recommendations
	protected.Get("/recommendations", h.Recommendation.List)
	protected.Post("/recommendations/generate", h.Recommendation.Generate)
	protected.Patch("/recommendations/:id/status", h.Recommendation.UpdateStatus)

	// Assistant
	protected.Post("/chat", middleware.RateLimitMiddleware(rdb, middleware.RateLimit{Scope: "chat", Limit: cfg.ChatRateLimitPerMinute, Window: time.Minute}), h.Chat.Chat)
	protected.Get("/chat/sessions", h.Chat.Sessions)
	protected.Get("/chat/sessions/:id", h.Chat.History)

	// Marketplace
	protected.Get("/marketplace/listings", h.Marketplace.ListListings)
	protected.Post("/marketplace/listings", middleware.RequirePermission(cfg, rbac.PermCreateListing), h.Marketplace.CreateListing)
	protected.Get("/marketplace/listings/mine", h.Marketplace.MyListings)
	protected.Get("/marketplace/listings/:id", h.Marketplace.GetListing)
	protected.Get("/marketplace/solutions", h.Marketplace.ListSolutions)
	protected.Post("/marketplace/solutions", middleware.RequirePermission(cfg, rbac.PermPublishSolution), h.Marketplace.CreateSolution)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WSHub.HandleWS))
}
