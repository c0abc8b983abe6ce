package database

import (
	"fmt"

	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
)

// RunMigrations creates or updates the tables the service writes to
func RunMigrations(db *DB) error {
	if err := db.AutoMigrate(&models.DiscoveryEvent{}); err != nil {
		return fmt.Errorf("failed to migrate discovery events: %w", err)
	}
	logging.Info().Str("dialect", db.Dialector.Name()).Msg("database migrations applied")
	return nil
}
