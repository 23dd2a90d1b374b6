package scheduler

import (
	"fmt"
	"time"

	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/rs/zerolog"
)

// HolidayCalendar is the part of the trading calendar the coverage check reads
type HolidayCalendar interface {
	HolidaysInYear(year int) ([]market_hours.Holiday, error)
	ActiveTier() market_hours.Tier
}

// CalendarCoverageJob warns when the active holiday tier has no holidays for
// the current year, or in December for the next one. An empty year means the
// holiday list needs extending and the calendar treats every weekday as open.
type CalendarCoverageJob struct {
	calendar HolidayCalendar
	now      func() time.Time
	log      zerolog.Logger
}

// NewCalendarCoverageJob creates a new calendar coverage job
func NewCalendarCoverageJob(calendar HolidayCalendar, log zerolog.Logger) *CalendarCoverageJob {
	return &CalendarCoverageJob{
		calendar: calendar,
		now:      time.Now,
		log:      log.With().Str("job", "calendar_coverage").Logger(),
	}
}

// Name returns the job name for scheduling and logging
func (j *CalendarCoverageJob) Name() string {
	return "calendar_coverage"
}

// Run checks coverage and logs uncovered years
func (j *CalendarCoverageJob) Run() error {
	missing, err := j.MissingYears()
	if err != nil {
		return err
	}

	tier := j.calendar.ActiveTier()
	for _, year := range missing {
		j.log.Warn().
			Int("year", year).
			Str("tier", string(tier)).
			Msg("No exchange holidays known for year; extend the holiday calendar")
	}
	if len(missing) == 0 {
		j.log.Debug().Str("tier", string(tier)).Msg("Holiday calendar coverage ok")
	}

	return nil
}

// MissingYears returns the years that should be covered but have no holidays
func (j *CalendarCoverageJob) MissingYears() ([]int, error) {
	now := j.now().In(market_hours.IST)

	years := []int{now.Year()}
	if now.Month() == time.December {
		years = append(years, now.Year()+1)
	}

	var missing []int
	for _, year := range years {
		holidays, err := j.calendar.HolidaysInYear(year)
		if err != nil {
			return nil, fmt.Errorf("failed to list holidays for %d: %w", year, err)
		}
		if len(holidays) == 0 {
			missing = append(missing, year)
		}
	}

	return missing, nil
}
