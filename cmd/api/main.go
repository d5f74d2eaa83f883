package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/cms"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/db"
	"github.com/precise-ai/backend/internal/events"
	apphttp "github.com/precise-ai/backend/internal/http"
	"github.com/precise-ai/backend/internal/http/handlers"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.PostgresDSN, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	dspRepo := repositories.NewDSPRepo(pool)
	earningRepo := repositories.NewEarningRepo(pool)
	recRepo := repositories.NewRecommendationRepo(pool)
	chatRepo := repositories.NewChatRepo(pool)
	audienceRepo := repositories.NewAudienceRepo(pool)
	marketplaceRepo := repositories.NewMarketplaceRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// LLM stays nil when no key is configured; chat answers 503.
	var llm services.LLMStreamer
	if cfg.LLMEnabled() {
		llm = services.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.AnthropicModel,
			cfg.AnthropicMaxTokens, cfg.LLMTimeout, log)
	}

	// Services
	userService := services.NewUserService(userRepo, auditRepo, cfg, log)
	campaignService := services.NewCampaignService(campaignRepo, auditRepo, log)
	dspService := services.NewDSPService(dspRepo, campaignRepo, publisher, nil, log)
	earningService := services.NewEarningService(earningRepo, marketplaceRepo, auditRepo, publisher, cfg.EarningDistributeAfter, log)
	recService := services.NewRecommendationService(recRepo, campaignRepo, dspRepo, userRepo, publisher, log)
	chatService := services.NewChatService(chatRepo, campaignRepo, llm, cfg.ChatHistoryLimit, log)
	audienceService := services.NewAudienceService(audienceRepo, campaignRepo, log)
	marketplaceService := services.NewMarketplaceService(marketplaceRepo, auditRepo, log)
	content := cms.NewClient(cms.OptionsFromConfig(cfg), rdb, log)

	// Handlers
	h := apphttp.Handlers{
		Auth:           handlers.NewAuthHandler(userService, log),
		User:           handlers.NewUserHandler(userService, log),
		Campaign:       handlers.NewCampaignHandler(campaignService, dspService, audienceService, log),
		Earning:        handlers.NewEarningHandler(earningService, log),
		Recommendation: handlers.NewRecommendationHandler(recService, log),
		Chat:           handlers.NewChatHandler(chatService, cfg, log),
		Marketplace:    handlers.NewMarketplaceHandler(marketplaceService, log),
		Content:        handlers.NewContentHandler(content, log),
		Webhook:        handlers.NewWebhookHandler(publisher, log),
		Demo:           handlers.NewDemoHandler(campaignService, earningService, dspService, recService, log),
		WSHub:          handlers.NewWSHub(cfg, subscriber, log),
	}

	// Start WS hub
	h.WSHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
