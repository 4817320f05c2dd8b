package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pageza/savorly/backend/config"
	"github.com/pageza/savorly/backend/internal/database"
	"github.com/pageza/savorly/backend/internal/logging"
	"github.com/pageza/savorly/backend/internal/server"
	"github.com/pageza/savorly/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(db, migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var opts server.Options

	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		// Continue without rate limiting if Redis is not available
		log.Warn().Err(err).Msg("failed to connect to redis")
	} else {
		defer redisClient.Close()
		opts.Redis = redisClient
	}

	if cfg.S3BucketName != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure S3")
		}
		opts.ImageStore = service.NewS3Store(s3Config)
	}

	srv := server.New(cfg, db, opts)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
