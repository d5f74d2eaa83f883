package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/db"
	"github.com/precise-ai/backend/internal/events"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	userRepo := repositories.NewUserRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	dspRepo := repositories.NewDSPRepo(pool)
	earningRepo := repositories.NewEarningRepo(pool)
	recRepo := repositories.NewRecommendationRepo(pool)
	marketplaceRepo := repositories.NewMarketplaceRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	earningService := services.NewEarningService(earningRepo, marketplaceRepo, auditRepo, publisher, cfg.EarningDistributeAfter, log)
	dspService := services.NewDSPService(dspRepo, campaignRepo, publisher, nil, log)
	recService := services.NewRecommendationService(recRepo, campaignRepo, dspRepo, userRepo, publisher, log)

	log.Info("worker started",
		zap.Duration("distribute_every", cfg.DistributeInterval),
		zap.Duration("simulate_every", cfg.SimulateInterval),
		zap.Duration("recommend_every", cfg.RecommendInterval),
	)

	// Run jobs on tickers
	distributeTicker := time.NewTicker(cfg.DistributeInterval)
	simulateTicker := time.NewTicker(cfg.SimulateInterval)
	recommendTicker := time.NewTicker(cfg.RecommendInterval)
	defer distributeTicker.Stop()
	defer simulateTicker.Stop()
	defer recommendTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-distributeTicker.C:
			runDistribution(ctx, earningService, log)
		case <-simulateTicker.C:
			runSimulation(ctx, dspService, log)
		case <-recommendTicker.C:
			runRecommendations(ctx, recService, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runDistribution(ctx context.Context, earningService *services.EarningService, log *zap.Logger) {
	distributed, err := earningService.DistributePending(ctx, time.Now())
	if err != nil {
		log.Error("failed to distribute earnings", zap.Error(err))
		return
	}
	if len(distributed) > 0 {
		log.Info("earnings distributed", zap.Int("count", len(distributed)))
	}
}

func runSimulation(ctx context.Context, dspService *services.DSPService, log *zap.Logger) {
	count, err := dspService.SimulateAll(ctx)
	if err != nil {
		log.Error("failed to simulate dsp performance", zap.Error(err))
		return
	}
	log.Info("dsp snapshots recorded", zap.Int("count", count))
}

func runRecommendations(ctx context.Context, recService *services.RecommendationService, log *zap.Logger) {
	created, err := recService.GenerateAll(ctx)
	if err != nil {
		log.Error("failed to generate recommendations", zap.Error(err))
		return
	}
	if created > 0 {
		log.Info("recommendations generated", zap.Int("count", created))
	}
}
