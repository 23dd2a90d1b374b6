package market_hours

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aristath/fundlens/internal/database"
	"github.com/aristath/fundlens/internal/utils"
	"github.com/rs/zerolog"
)

// HolidayRepository is the dynamic holiday tier: exchange holidays stored in calendar.db.
// It implements HolidaySource and HolidayLister.
type HolidayRepository struct {
	calendarDB *sql.DB // calendar.db - holidays table
	exchange   string
	log        zerolog.Logger
}

// NewHolidayRepository creates a repository for the NSE holidays in calendarDB
func NewHolidayRepository(calendarDB *sql.DB, log zerolog.Logger) *HolidayRepository {
	return &HolidayRepository{
		calendarDB: calendarDB,
		exchange:   ExchangeCode,
		log:        log.With().Str("repo", "holiday").Logger(),
	}
}

// Name returns the tier name
func (r *HolidayRepository) Name() string {
	return string(TierDynamic)
}

// Count returns the number of stored holidays for the exchange
func (r *HolidayRepository) Count() (int, error) {
	var count int
	err := r.calendarDB.QueryRow("SELECT COUNT(*) FROM holidays WHERE exchange = ?", r.exchange).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}
	return count, nil
}

// IsHoliday checks the holidays table for the date's calendar day. A year with
// no stored holidays is not covered by the table and yields
// ErrCalendarUnavailable, so the caller can answer from another source.
func (r *HolidayRepository) IsHoliday(date time.Time) (bool, error) {
	var one int
	err := r.calendarDB.QueryRow(
		"SELECT 1 FROM holidays WHERE exchange = ? AND date = ?",
		r.exchange, date.Format(dateLayout),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.requireYear(date.Year()); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query holiday: %w", err)
	}
	return true, nil
}

// requireYear fails with ErrCalendarUnavailable when no holidays are stored for year
func (r *HolidayRepository) requireYear(year int) error {
	var count int
	err := r.calendarDB.QueryRow(
		"SELECT COUNT(*) FROM holidays WHERE exchange = ? AND date >= ? AND date <= ?",
		r.exchange, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count holidays for %d: %w", year, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: no holidays stored for %d", ErrCalendarUnavailable, year)
	}
	return nil
}

// HolidaysInYear returns the stored holidays of a year in date order. An
// uncovered year yields ErrCalendarUnavailable.
func (r *HolidayRepository) HolidaysInYear(year int) ([]Holiday, error) {
	rows, err := r.calendarDB.Query(
		"SELECT date, description FROM holidays WHERE exchange = ? AND date >= ? AND date <= ? ORDER BY date",
		r.exchange, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays for %d: %w", year, err)
	}
	defer rows.Close()

	holidays := make([]Holiday, 0)
	for rows.Next() {
		var dateStr, desc string
		if err := rows.Scan(&dateStr, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		date, err := time.ParseInLocation(dateLayout, dateStr, IST)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", dateStr, err)
		}
		holidays = append(holidays, Holiday{Date: date, Description: desc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	if len(holidays) == 0 {
		return nil, fmt.Errorf("%w: no holidays stored for %d", ErrCalendarUnavailable, year)
	}

	return holidays, nil
}

// Upsert stores holidays in a single transaction, replacing descriptions of
// dates that already exist
func (r *HolidayRepository) Upsert(holidays []Holiday, source string) error {
	now := time.Now().Unix()

	err := database.WithTransaction(r.calendarDB, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO holidays (exchange, date, description, source, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(exchange, date) DO UPDATE SET
				description = excluded.description,
				source = excluded.source,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare holiday upsert: %w", err)
		}
		defer stmt.Close()

		for _, h := range holidays {
			if _, err := stmt.Exec(r.exchange, h.Date.Format(dateLayout), h.Description, source, now); err != nil {
				return fmt.Errorf("failed to upsert holiday %s: %w", h.Date.Format(dateLayout), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Int("count", len(holidays)).Str("source", source).Msg("Holidays stored")
	return nil
}

// ImportCSV reads rows of date[,description] and upserts them.
// Dates may use any layout utils.ParseDate accepts. Blank lines and a leading
// header row are skipped; any other unparsable date aborts the import.
func (r *HolidayRepository) ImportCSV(rd io.Reader, source string) (int, error) {
	defer utils.OperationTimer("import_holidays", r.log)()

	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var holidays []Holiday
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read holiday file: %w", err)
		}
		line++

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		date, err := utils.ParseDate(record[0])
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return 0, fmt.Errorf("record %d: %w", line, err)
		}

		h := Holiday{Date: date}
		if len(record) > 1 {
			h.Description = strings.TrimSpace(record[1])
		}
		holidays = append(holidays, h)
	}

	if len(holidays) == 0 {
		return 0, nil
	}
	if err := r.Upsert(holidays, source); err != nil {
		return 0, err
	}
	return len(holidays), nil
}

// NewDatabaseLoader returns a loader that serves the repository as the dynamic
// tier, or fails with ErrCalendarUnavailable when it holds no holidays
func NewDatabaseLoader(repo *HolidayRepository) SourceLoader {
	return func() (HolidaySource, error) {
		count, err := repo.Count()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: holiday table is empty", ErrCalendarUnavailable)
		}
		return repo, nil
	}
}
