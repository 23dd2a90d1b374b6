package holdings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UploadRepository stores processed uploads in holdings.db
type UploadRepository struct {
	holdingsDB *sql.DB // holdings.db - uploads table
	log        zerolog.Logger
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(holdingsDB *sql.DB, log zerolog.Logger) *UploadRepository {
	return &UploadRepository{
		holdingsDB: holdingsDB,
		log:        log.With().Str("repo", "upload").Logger(),
	}
}

// Save stores a processed upload together with its full result
func (r *UploadRepository) Save(result Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode upload %s: %w", result.UploadID, err)
	}

	_, err = r.holdingsDB.Exec(`
		INSERT INTO uploads
		(id, filename, sheet, header_row, holdings_count, skipped, total_weight, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.UploadID,
		result.Filename,
		result.Sheet,
		result.HeaderRow,
		result.Summary.Count,
		result.Skipped,
		result.Summary.TotalWeight.String(),
		string(payload),
		result.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save upload %s: %w", result.UploadID, err)
	}

	r.log.Debug().Str("upload_id", result.UploadID).Int("holdings", result.Summary.Count).Msg("Upload stored")
	return nil
}

// GetPayload returns the stored result document of an upload
func (r *UploadRepository) GetPayload(id string) (json.RawMessage, error) {
	var payload string
	err := r.holdingsDB.QueryRow("SELECT payload FROM uploads WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload %s: %w", id, err)
	}
	return json.RawMessage(payload), nil
}

// ListRecent returns the most recent uploads, newest first
func (r *UploadRepository) ListRecent(limit int) ([]Upload, error) {
	rows, err := r.holdingsDB.Query(`
		SELECT id, filename, sheet, header_row, holdings_count, skipped, total_weight, created_at
		FROM uploads
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	uploads := make([]Upload, 0)
	for rows.Next() {
		var u Upload
		var total string
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Filename, &u.Sheet, &u.HeaderRow, &u.HoldingsCount, &u.Skipped, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		u.TotalWeight, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("invalid total weight for upload %s: %w", u.ID, err)
		}
		u.CreatedAt = time.Unix(createdAt, 0).UTC()
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploads: %w", err)
	}

	return uploads, nil
}

// DeleteOlderThan removes uploads created before cutoff and returns how many were removed
func (r *UploadRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.holdingsDB.Exec("DELETE FROM uploads WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old uploads: %w", err)
	}
	return res.RowsAffected()
}
