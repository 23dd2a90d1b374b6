package market_hours

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TradingCalendar provides NSE trading-day awareness.
//
// Holidays come from two tiers: a dynamic source built lazily by a loader on
// first use, and a static fallback set. A loader failure is sticky: the
// calendar answers from the fallback for the rest of the process and never
// retries. A failed query against a healthy dynamic source, including a year
// it holds no holidays for, falls back for that query only.
type TradingCalendar struct {
	exchange ExchangeConfig
	loader   SourceLoader
	fallback *StaticSource
	log      zerolog.Logger

	once    sync.Once
	dynamic HolidaySource // nil when the loader failed or was not configured
}

// NewTradingCalendar creates a calendar for NSE.
// loader may be nil, in which case the fallback tier serves every query.
func NewTradingCalendar(loader SourceLoader, fallback *StaticSource, log zerolog.Logger) *TradingCalendar {
	if fallback == nil {
		fallback = NewStaticSource()
	}
	return &TradingCalendar{
		exchange: NSE,
		loader:   loader,
		fallback: fallback,
		log:      log.With().Str("component", "trading_calendar").Logger(),
	}
}

// init resolves the dynamic tier exactly once, even under concurrent first use
func (c *TradingCalendar) init() {
	c.once.Do(func() {
		if c.loader == nil {
			c.log.Info().Int("holidays", c.fallback.Len()).Msg("No dynamic holiday source configured, using fallback holidays")
			return
		}

		source, err := c.load()
		if err != nil {
			c.log.Warn().Err(err).Msg("Dynamic holiday source unavailable, using fallback holidays")
			return
		}

		c.dynamic = source
		c.log.Info().Str("source", source.Name()).Msg("Dynamic holiday source initialized")
	})
}

func (c *TradingCalendar) load() (source HolidaySource, err error) {
	defer func() {
		if p := recover(); p != nil {
			source = nil
			err = fmt.Errorf("holiday source loader panicked: %v", p)
		}
	}()

	source, err = c.loader()
	if err == nil && source == nil {
		err = ErrCalendarUnavailable
	}
	return source, err
}

// ActiveTier reports which tier answers holiday queries
func (c *TradingCalendar) ActiveTier() Tier {
	c.init()
	if c.dynamic != nil {
		return TierDynamic
	}
	return TierFallback
}

// Exchange returns the exchange configuration
func (c *TradingCalendar) Exchange() ExchangeConfig {
	return c.exchange
}

// IsHoliday checks if a date is an NSE holiday. Only the date's calendar
// fields are used; no timezone conversion happens.
func (c *TradingCalendar) IsHoliday(date time.Time) bool {
	c.init()

	date = civilDate(date)

	if c.dynamic != nil {
		holiday, err := c.dynamic.IsHoliday(date)
		if err == nil {
			return holiday
		}
		c.logDynamicMiss(err).Str("date", date.Format(dateLayout)).Msg("Dynamic holiday lookup failed, using fallback holidays")
	}

	holiday, _ := c.fallback.IsHoliday(date)
	return holiday
}

// IsTradingDay checks if t, converted to exchange time, falls on a weekday
// that is not a holiday
func (c *TradingCalendar) IsTradingDay(t time.Time) bool {
	local := t.In(c.exchange.Timezone)
	return c.isTradingDate(civilDate(local))
}

func (c *TradingCalendar) isTradingDate(date time.Time) bool {
	if isWeekend(date) {
		return false
	}
	return !c.IsHoliday(date)
}

// IsMarketOpen checks if the market is in session at t. Both the open and
// the close minute count as open.
func (c *TradingCalendar) IsMarketOpen(t time.Time) bool {
	local := t.In(c.exchange.Timezone)
	if !c.isTradingDate(civilDate(local)) {
		return false
	}

	openTime, closeTime := c.sessionBounds(local)
	return !local.Before(openTime) && !local.After(closeTime)
}

func (c *TradingCalendar) sessionBounds(local time.Time) (time.Time, time.Time) {
	h := c.exchange.TradingHours
	openTime := time.Date(local.Year(), local.Month(), local.Day(), h.OpenHour, h.OpenMinute, 0, 0, c.exchange.Timezone)
	closeTime := time.Date(local.Year(), local.Month(), local.Day(), h.CloseHour, h.CloseMinute, 0, 0, c.exchange.Timezone)
	return openTime, closeTime
}

// PreviousBusinessDay returns the closest trading date strictly before date.
// The walk gives up after maxWalkDays consecutive non-trading days.
func (c *TradingCalendar) PreviousBusinessDay(date time.Time) (time.Time, error) {
	return c.walk(date, -1)
}

// NextTradingDay returns the closest trading date strictly after date
func (c *TradingCalendar) NextTradingDay(date time.Time) (time.Time, error) {
	return c.walk(date, 1)
}

func (c *TradingCalendar) walk(date time.Time, step int) (time.Time, error) {
	check := civilDate(date)
	for i := 0; i < maxWalkDays; i++ {
		check = check.AddDate(0, 0, step)
		if c.isTradingDate(check) {
			return check, nil
		}
	}
	return time.Time{}, fmt.Errorf("no trading day within %d days of %s", maxWalkDays, date.Format(dateLayout))
}

// HolidaysInYear lists the holidays of a year from the active tier. A dynamic
// source that cannot list, or fails to, is answered by the fallback set.
func (c *TradingCalendar) HolidaysInYear(year int) ([]Holiday, error) {
	c.init()

	if lister, ok := c.dynamic.(HolidayLister); ok {
		holidays, err := lister.HolidaysInYear(year)
		if err == nil {
			return holidays, nil
		}
		c.logDynamicMiss(err).Int("year", year).Msg("Failed to list dynamic holidays, using fallback holidays")
	}

	return c.fallback.HolidaysInYear(year)
}

// logDynamicMiss picks the level for a dynamic tier miss. A year the dynamic
// source does not cover is routine; anything else is an error.
func (c *TradingCalendar) logDynamicMiss(err error) *zerolog.Event {
	if errors.Is(err, ErrCalendarUnavailable) {
		return c.log.Debug().Err(err)
	}
	return c.log.Error().Err(err)
}

// GetMarketStatus returns detailed status for the market at t
func (c *TradingCalendar) GetMarketStatus(t time.Time) MarketStatus {
	local := t.In(c.exchange.Timezone)

	status := MarketStatus{
		Open:     c.IsMarketOpen(t),
		Exchange: c.exchange.Code,
		Timezone: c.exchange.Timezone.String(),
		Tier:     c.ActiveTier(),
	}

	if status.Open {
		_, closeTime := c.sessionBounds(local)
		status.ClosesAt = closeTime.Format("15:04")
		return status
	}

	if nextOpen, ok := c.findNextTradingSession(local); ok {
		status.OpensAt = nextOpen.Format("15:04")
		if nextOpen.Day() != local.Day() || nextOpen.Month() != local.Month() {
			status.OpensDate = nextOpen.Format(dateLayout)
		}
	}

	return status
}

// findNextTradingSession finds the next time the market will open
func (c *TradingCalendar) findNextTradingSession(local time.Time) (time.Time, bool) {
	today := civilDate(local)
	if c.isTradingDate(today) {
		openTime, _ := c.sessionBounds(local)
		if local.Before(openTime) {
			return openTime, true
		}
	}

	next, err := c.NextTradingDay(today)
	if err != nil {
		return time.Time{}, false
	}
	openTime, _ := c.sessionBounds(next)
	return openTime, true
}
