package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/pageza/savorly/backend/config"
	"github.com/pageza/savorly/backend/internal/database"
	"github.com/pageza/savorly/backend/internal/logging"
	"github.com/pageza/savorly/backend/internal/seed"
)

func main() {
	recipes := flag.Int("recipes", 0, "Number of fake recipes to generate")
	fakerSeed := flag.Int64("faker-seed", 0, "Seed for generated data, 0 for random")
	migrationsDir := flag.String("migrations", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if _, err := seed.Run(context.Background(), db, seed.Options{Recipes: *recipes, FakerSeed: *fakerSeed}); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
