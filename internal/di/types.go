// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/fundlens/internal/database"
	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/aristath/fundlens/internal/modules/holdings"
	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/aristath/fundlens/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	CalendarDB *database.DB // Dynamic holiday tier (exchange holidays)
	HoldingsDB *database.DB // Stored holdings uploads, safe to regenerate

	// Repositories
	HolidayRepo *market_hours.HolidayRepository
	UploadRepo  *holdings.UploadRepository

	// Services
	Calendar        *market_hours.TradingCalendar
	Normalizer      *columns.Normalizer
	HoldingsService *holdings.Service

	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	CalendarCoverage *scheduler.CalendarCoverageJob
	UploadCleanup    *scheduler.UploadCleanupJob
}

// Databases returns every open database in the container
func (c *Container) Databases() []*database.DB {
	var dbs []*database.DB
	for _, db := range []*database.DB{c.CalendarDB, c.HoldingsDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close closes every open database, returning the first error
func (c *Container) Close() error {
	var firstErr error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
