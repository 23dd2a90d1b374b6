package di

import (
	"fmt"

	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. calendar.db - Exchange holidays (dynamic calendar tier)
	calendarDB, err := database.New(database.Config{
		Path:    cfg.Calendar.DBPath,
		Profile: database.ProfileStandard,
		Name:    "calendar",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar database: %w", err)
	}
	container.CalendarDB = calendarDB

	// 2. holdings.db - Parsed uploads, purged after the retention period
	holdingsDB, err := database.New(database.Config{
		Path:    cfg.Uploads.DBPath,
		Profile: database.ProfileCache,
		Name:    "holdings",
	})
	if err != nil {
		calendarDB.Close()
		return nil, fmt.Errorf("failed to initialize holdings database: %w", err)
	}
	container.HoldingsDB = holdingsDB

	for _, db := range container.Databases() {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to apply schema to %s: %w", db.Name(), err)
		}
	}

	log.Info().Msg("All databases initialized and schemas applied")

	return container, nil
}
