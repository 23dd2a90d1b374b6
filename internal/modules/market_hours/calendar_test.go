package market_hours

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	testingpkg "github.com/aristath/fundlens/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, IST)
}

func newFallbackCalendar() *TradingCalendar {
	return NewTradingCalendar(nil, NewStaticSource(), zerolog.Nop())
}

func staticLoader(source HolidaySource, calls *int32) SourceLoader {
	return func() (HolidaySource, error) {
		atomic.AddInt32(calls, 1)
		return source, nil
	}
}

func TestIsHoliday(t *testing.T) {
	cal := newFallbackCalendar()

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"Republic Day 2026", ist(2026, time.January, 26, 0, 0), true},
		{"Holi 2026", ist(2026, time.March, 3, 0, 0), true},
		{"Mahashivratri 2025", ist(2025, time.February, 26, 0, 0), true},
		{"Christmas 2024", ist(2024, time.December, 25, 0, 0), true},
		{"regular Tuesday", ist(2026, time.January, 27, 0, 0), false},
		{"time of day ignored", ist(2026, time.January, 26, 23, 59), true},
		{"no timezone conversion", time.Date(2026, time.January, 26, 22, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsHoliday(tt.date))
		})
	}
}

func TestIsTradingDay(t *testing.T) {
	cal := newFallbackCalendar()

	tests := []struct {
		name     string
		time     time.Time
		expected bool
	}{
		{"regular weekday", ist(2026, time.January, 27, 10, 0), true},
		{"Saturday", ist(2026, time.January, 24, 10, 0), false},
		{"Sunday", ist(2026, time.January, 25, 10, 0), false},
		{"holiday", ist(2026, time.January, 26, 10, 0), false},
		// 20:00 UTC on the holiday is already the next morning in India
		{"converted to exchange time", time.Date(2026, time.January, 26, 20, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsTradingDay(tt.time))
		})
	}
}

func TestIsMarketOpen(t *testing.T) {
	cal := newFallbackCalendar()

	tests := []struct {
		name     string
		time     time.Time
		expected bool
	}{
		{"mid session", ist(2026, time.January, 27, 10, 0), true},
		{"exactly at open", ist(2026, time.January, 27, 9, 15), true},
		{"one minute before open", ist(2026, time.January, 27, 9, 14), false},
		{"exactly at close", ist(2026, time.January, 27, 15, 30), true},
		{"one minute after close", ist(2026, time.January, 27, 15, 31), false},
		{"second after close", time.Date(2026, time.January, 27, 15, 30, 1, 0, IST), false},
		{"holiday during hours", ist(2026, time.January, 26, 10, 30), false},
		{"weekend during hours", ist(2026, time.January, 24, 11, 0), false},
		{"UTC input inside session", time.Date(2026, time.January, 27, 4, 0, 0, 0, time.UTC), true},
		{"UTC input before open", time.Date(2026, time.January, 27, 3, 44, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsMarketOpen(tt.time))
		})
	}
}

func TestPreviousBusinessDay(t *testing.T) {
	cal := newFallbackCalendar()

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{"skips holiday and weekend", ist(2026, time.January, 27, 0, 0), "2026-01-23"},
		{"skips Holi", ist(2026, time.March, 4, 0, 0), "2026-03-02"},
		{"plain weekday", ist(2026, time.January, 28, 0, 0), "2026-01-27"},
		{"from Sunday", ist(2026, time.February, 1, 0, 0), "2026-01-30"},
		{"from a holiday", ist(2026, time.January, 26, 0, 0), "2026-01-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.PreviousBusinessDay(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Format("2006-01-02"))
			assert.True(t, got.Before(tt.date))
		})
	}
}

func TestNextTradingDay(t *testing.T) {
	cal := newFallbackCalendar()

	got, err := cal.NextTradingDay(ist(2026, time.January, 23, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-27", got.Format("2006-01-02"))

	got, err = cal.NextTradingDay(ist(2026, time.March, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", got.Format("2006-01-02"))
}

func TestBusinessDayWalkGuard(t *testing.T) {
	start := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
	var closures []time.Time
	for i := 0; i < 40; i++ {
		closures = append(closures, start.AddDate(0, 0, i))
	}
	cal := NewTradingCalendar(nil, NewStaticSource(closures...), zerolog.Nop())

	_, err := cal.PreviousBusinessDay(ist(2030, time.July, 10, 0, 0))
	assert.Error(t, err)

	_, err = cal.NextTradingDay(ist(2030, time.May, 31, 0, 0))
	assert.Error(t, err)
}

func TestDynamicTierAnswersWhenHealthy(t *testing.T) {
	var calls int32
	source := testingpkg.NewMockHolidaySource("dynamic", "2026-01-27")
	cal := NewTradingCalendar(staticLoader(source, &calls), NewStaticSource(), zerolog.Nop())

	assert.True(t, cal.IsHoliday(ist(2026, time.January, 27, 0, 0)))
	// The dynamic source does not list Republic Day, and it is authoritative
	assert.False(t, cal.IsHoliday(ist(2026, time.January, 26, 0, 0)))
	assert.Equal(t, TierDynamic, cal.ActiveTier())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoaderFailureIsSticky(t *testing.T) {
	var calls int32
	loader := func() (HolidaySource, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("calendar service unreachable")
	}
	cal := NewTradingCalendar(loader, NewStaticSource(), zerolog.Nop())

	for i := 0; i < 5; i++ {
		assert.True(t, cal.IsHoliday(ist(2026, time.January, 26, 0, 0)))
		assert.False(t, cal.IsTradingDay(ist(2026, time.January, 24, 10, 0)))
	}

	assert.Equal(t, TierFallback, cal.ActiveTier())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoaderPanicFallsBack(t *testing.T) {
	loader := func() (HolidaySource, error) {
		panic("corrupt calendar data")
	}
	cal := NewTradingCalendar(loader, NewStaticSource(), zerolog.Nop())

	assert.NotPanics(t, func() {
		assert.True(t, cal.IsHoliday(ist(2026, time.March, 3, 0, 0)))
	})
	assert.Equal(t, TierFallback, cal.ActiveTier())
}

func TestLoaderReturningNilSourceFallsBack(t *testing.T) {
	loader := func() (HolidaySource, error) { return nil, nil }
	cal := NewTradingCalendar(loader, NewStaticSource(), zerolog.Nop())

	assert.Equal(t, TierFallback, cal.ActiveTier())
	assert.True(t, cal.IsHoliday(ist(2026, time.January, 26, 0, 0)))
}

func TestPerQueryFailureFallsBackForThatQueryOnly(t *testing.T) {
	var calls int32
	source := testingpkg.NewMockHolidaySource("dynamic")
	cal := NewTradingCalendar(staticLoader(source, &calls), NewStaticSource(), zerolog.Nop())

	source.SetError(errors.New("database is locked"))
	assert.True(t, cal.IsHoliday(ist(2026, time.January, 26, 0, 0)), "fallback answers the failed query")
	assert.Equal(t, TierDynamic, cal.ActiveTier())

	source.SetError(nil)
	assert.False(t, cal.IsHoliday(ist(2026, time.January, 26, 0, 0)), "dynamic source answers again")
	assert.Equal(t, 2, source.Calls())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConcurrentFirstUseInitializesOnce(t *testing.T) {
	var calls int32
	loader := func() (HolidaySource, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return testingpkg.NewMockHolidaySource("dynamic", "2026-01-26"), nil
	}
	cal := NewTradingCalendar(loader, NewStaticSource(), zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]bool, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cal.IsTradingDay(ist(2026, time.January, 26, 10, 0))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.False(t, r)
	}
}

func TestHolidaysInYear(t *testing.T) {
	t.Run("fallback tier", func(t *testing.T) {
		cal := newFallbackCalendar()

		holidays, err := cal.HolidaysInYear(2026)
		require.NoError(t, err)
		require.Len(t, holidays, 15)
		assert.Equal(t, "2026-01-26", holidays[0].Date.Format("2006-01-02"))
		assert.Equal(t, "Republic Day", holidays[0].Description)
		assert.Equal(t, "2026-12-25", holidays[len(holidays)-1].Date.Format("2006-01-02"))
	})

	t.Run("unknown year", func(t *testing.T) {
		holidays, err := newFallbackCalendar().HolidaysInYear(1999)
		require.NoError(t, err)
		assert.Empty(t, holidays)
	})

	t.Run("dynamic source without listing uses fallback", func(t *testing.T) {
		var calls int32
		cal := NewTradingCalendar(staticLoader(testingpkg.NewMockHolidaySource("dynamic"), &calls), NewStaticSource(), zerolog.Nop())

		holidays, err := cal.HolidaysInYear(2025)
		require.NoError(t, err)
		assert.NotEmpty(t, holidays)
	})
}

func TestGetMarketStatus(t *testing.T) {
	cal := newFallbackCalendar()

	t.Run("open", func(t *testing.T) {
		status := cal.GetMarketStatus(ist(2026, time.January, 27, 10, 0))
		assert.True(t, status.Open)
		assert.Equal(t, "XNSE", status.Exchange)
		assert.Equal(t, "15:30", status.ClosesAt)
		assert.Empty(t, status.OpensAt)
		assert.Equal(t, TierFallback, status.Tier)
	})

	t.Run("before open", func(t *testing.T) {
		status := cal.GetMarketStatus(ist(2026, time.January, 27, 8, 0))
		assert.False(t, status.Open)
		assert.Equal(t, "09:15", status.OpensAt)
		assert.Empty(t, status.OpensDate)
	})

	t.Run("closed over holiday weekend", func(t *testing.T) {
		status := cal.GetMarketStatus(ist(2026, time.January, 23, 16, 0))
		assert.False(t, status.Open)
		assert.Equal(t, "09:15", status.OpensAt)
		assert.Equal(t, "2026-01-27", status.OpensDate)
	})
}
