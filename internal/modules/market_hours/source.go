package market_hours

import (
	"errors"
	"time"
)

// ErrCalendarUnavailable is returned by a loader when the dynamic holiday
// source cannot serve queries (missing database, empty table)
var ErrCalendarUnavailable = errors.New("holiday calendar unavailable")

// HolidaySource answers whether a calendar date is a non-trading day.
// Only the date's calendar fields are significant.
type HolidaySource interface {
	Name() string
	IsHoliday(date time.Time) (bool, error)
}

// HolidayLister is implemented by sources that can enumerate their holidays
type HolidayLister interface {
	HolidaysInYear(year int) ([]Holiday, error)
}

// SourceLoader builds the dynamic holiday source. It is invoked at most once
// per TradingCalendar.
type SourceLoader func() (HolidaySource, error)
