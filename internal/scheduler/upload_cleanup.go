package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// UploadPurger deletes stored uploads older than a given age
type UploadPurger interface {
	Purge(maxAge time.Duration) (int64, error)
}

// UploadCleanupJob removes stored holdings uploads past their retention.
// It should be scheduled to run daily.
type UploadCleanupJob struct {
	purger    UploadPurger
	retention time.Duration
	log       zerolog.Logger
}

// NewUploadCleanupJob creates a new upload cleanup job
func NewUploadCleanupJob(purger UploadPurger, retention time.Duration, log zerolog.Logger) *UploadCleanupJob {
	return &UploadCleanupJob{
		purger:    purger,
		retention: retention,
		log:       log.With().Str("job", "upload_cleanup").Logger(),
	}
}

// Name returns the job name for scheduling and logging
func (j *UploadCleanupJob) Name() string {
	return "upload_cleanup"
}

// Run deletes expired uploads
func (j *UploadCleanupJob) Run() error {
	removed, err := j.purger.Purge(j.retention)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to purge uploads")
		return err
	}

	if removed > 0 {
		j.log.Info().Int64("deleted", removed).Msg("Upload cleanup completed")
	}
	return nil
}
