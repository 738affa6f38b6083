// Package main is the entry point for the leaderboard backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/config"
	"leaderboard-backend/internal/handler"
	"leaderboard-backend/internal/pkg/db"
	"leaderboard-backend/internal/pkg/lock"
	"leaderboard-backend/internal/repository"
	"leaderboard-backend/internal/server"
	"leaderboard-backend/internal/service"
	"leaderboard-backend/internal/submission"
	"leaderboard-backend/internal/web"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repository and services
	scoreRepo := repository.NewScoreRepository(dbPool.Pool)

	var raffle service.RaffleSubmitter
	if cfg.Raffle.Enabled {
		raffle = submission.NewClient(&cfg.Raffle)
	} else {
		log.Warn().Msg("External raffle submission disabled")
	}

	claimLock := lock.New()
	scoreService := service.NewScoreService(scoreRepo)
	rankingService := service.NewRankingService(scoreRepo)
	claimService := service.NewClaimService(scoreRepo, claimLock, raffle)

	// Parse embedded templates
	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Wire handlers and router
	router, err := server.NewRouter(&server.Handlers{
		Score:       handler.NewScoreHandler(scoreService, cfg.Auth.Token),
		Claim:       handler.NewClaimHandler(claimService, rankingService, templates, cfg.Server.BaseURL, cfg.Server.Debug),
		Leaderboard: handler.NewLeaderboardHandler(rankingService, templates, cfg.Server.Debug),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Server is starting...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create unclaimed scores table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS unclaimed_scores (
			id UUID PRIMARY KEY,
			score INTEGER NOT NULL,
			color VARCHAR(7) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: unclaimed_scores table created")

	// Migration 2: Create leaderboard table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			nickname TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: scores table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
