// Package main is the entry point for fundlens, the mutual fund data service.
// It serves NSE trading-calendar queries, SIP installment schedules and
// column-normalized holdings extraction from AMC portfolio disclosures.
//
// The application follows the same layering throughout:
// - Core packages (columns, market_hours, sip) do no network I/O
// - Dependency injection via DI container
// - Repository pattern for data access
// - HTTP handlers per module, mounted by internal/server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/di"
	"github.com/aristath/fundlens/internal/server"
	"github.com/aristath/fundlens/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires databases, repositories, services and jobs
// 4. Starts the HTTP server and the job scheduler
// 5. Waits for a shutdown signal and shuts down gracefully
//
// Two SQLite databases live under the data directory:
// - calendar.db: exchange holidays (dynamic calendar tier)
// - holdings.db: parsed holdings uploads, purged after the retention period
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting fundlens")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	log.Info().
		Str("tier", string(container.Calendar.ActiveTier())).
		Msg("Trading calendar ready")

	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		Config:    cfg,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Report calendar coverage immediately rather than waiting for the first tick
	if err := container.Scheduler.RunNow(jobs.CalendarCoverage); err != nil {
		log.Warn().Err(err).Msg("Initial calendar coverage check failed")
	}

	container.Scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Waits for running jobs to finish
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
