package holdings

import (
	"fmt"
	"io"
	"time"

	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/aristath/fundlens/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service ingests disclosure uploads
type Service struct {
	repo       *UploadRepository // optional; results are not stored when nil
	normalizer *columns.Normalizer
	log        zerolog.Logger
}

// NewService creates a new holdings service. A nil normalizer means the
// default rule table.
func NewService(repo *UploadRepository, normalizer *columns.Normalizer, log zerolog.Logger) *Service {
	if normalizer == nil {
		normalizer = columns.NewNormalizer()
	}
	return &Service{
		repo:       repo,
		normalizer: normalizer,
		log:        log.With().Str("service", "holdings").Logger(),
	}
}

// Ingest decodes, parses and summarizes a disclosure file, then stores the result
func (s *Service) Ingest(filename string, r io.Reader, sheet string) (Result, error) {
	defer utils.OperationTimer("ingest_holdings", s.log)()

	table, err := Load(filename, r, sheet)
	if err != nil {
		return Result{}, err
	}

	extraction, err := ParseWith(s.normalizer, table)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		UploadID:   uuid.New().String(),
		Filename:   filename,
		Sheet:      table.Sheet,
		CreatedAt:  time.Now().UTC(),
		Extraction: extraction,
		Summary:    Summarize(extraction.Holdings),
	}

	if s.repo != nil {
		if err := s.repo.Save(result); err != nil {
			return Result{}, fmt.Errorf("failed to store upload: %w", err)
		}
	}

	s.log.Info().
		Str("upload_id", result.UploadID).
		Str("filename", filename).
		Int("header_row", extraction.HeaderRow).
		Int("holdings", result.Summary.Count).
		Int("skipped", extraction.Skipped).
		Int("ignored", extraction.Ignored).
		Bool("scaled", extraction.Scaled).
		Msg("Disclosure ingested")

	return result, nil
}

// Get returns the stored result document of an upload
func (s *Service) Get(id string) ([]byte, error) {
	if s.repo == nil {
		return nil, ErrUploadNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUploadNotFound
	}
	return s.repo.GetPayload(id)
}

// Recent lists the most recent uploads
func (s *Service) Recent(limit int) ([]Upload, error) {
	if s.repo == nil {
		return []Upload{}, nil
	}
	return s.repo.ListRecent(limit)
}

// Purge deletes uploads older than maxAge
func (s *Service) Purge(maxAge time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	removed, err := s.repo.DeleteOlderThan(time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("Purged old uploads")
	}
	return removed, nil
}
