package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/db"
)

var (
	verbose bool
	dsn     string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Database maintenance for the Precise backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dsn != "" {
			cfg.PostgresDSN = dsn
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.RunMigrations(cfg.PostgresDSN, logger)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Migrate and load the demo accounts, campaigns and marketplace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunMigrations(cfg.PostgresDSN, logger); err != nil {
			return err
		}
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			return db.Seed(cmd.Context(), pool, logger)
		})
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill-roas",
	Short: "Recompute ROAS for campaigns with spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			n, err := db.BackfillROAS(cmd.Context(), pool, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d campaign(s)\n", n)
			return nil
		})
	},
}

func withPool(ctx context.Context, fn func(*pgxpool.Pool) error) error {
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres DSN (defaults to POSTGRES_DSN)")
	rootCmd.AddCommand(migrateCmd, demoCmd, backfillCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
