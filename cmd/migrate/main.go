package main

import (
	"context"
	"flag"
	"time"

	"github.com/pageza/alchemorsel-v2/discovery/config"
	"github.com/pageza/alchemorsel-v2/discovery/internal/database"
	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
)

func main() {
	prune := flag.Duration("prune-older-than", 0, "delete discovery events older than this age after migrating (0 keeps everything)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}

	if *prune > 0 {
		cutoff := time.Now().Add(-*prune)
		n, err := service.NewEventService(db.DB).Prune(context.Background(), cutoff)
		if err != nil {
			logging.Fatal().Err(err).Msg("prune failed")
		}
		logging.Info().Int64("deleted", n).Time("before", cutoff).Msg("pruned discovery events")
	}
}
