package di

import (
	"fmt"

	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers all background jobs.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{}

	instances.CalendarCoverage = scheduler.NewCalendarCoverageJob(container.Calendar, log)
	if err := sched.AddJob(cfg.Calendar.CheckSchedule, instances.CalendarCoverage); err != nil {
		return nil, err
	}

	instances.UploadCleanup = scheduler.NewUploadCleanupJob(container.HoldingsService, cfg.UploadRetention(), log)
	if err := sched.AddJob(cfg.Uploads.CleanupSchedule, instances.UploadCleanup); err != nil {
		return nil, err
	}

	container.Scheduler = sched

	log.Info().Int("jobs", sched.Len()).Msg("Background jobs registered")

	return instances, nil
}
