package market_hours

import (
	"fmt"
	"sort"
	"time"
)

// fallbackHolidays is the hardcoded NSE trading-holiday list used when the
// holiday database is unavailable. It is data, not logic: extend it every
// year when NSE publishes the next circular.
var fallbackHolidays = map[string]string{
	// 2024
	"2024-01-22": "Special Holiday",
	"2024-01-26": "Republic Day",
	"2024-03-08": "Mahashivratri",
	"2024-03-25": "Holi",
	"2024-03-29": "Good Friday",
	"2024-04-11": "Id-Ul-Fitr",
	"2024-04-17": "Shri Ram Navmi",
	"2024-05-01": "Maharashtra Day",
	"2024-05-20": "General Elections",
	"2024-06-17": "Bakri Id",
	"2024-07-17": "Moharram",
	"2024-08-15": "Independence Day",
	"2024-10-02": "Mahatma Gandhi Jayanti",
	"2024-11-01": "Diwali Laxmi Pujan",
	"2024-11-15": "Gurunanak Jayanti",
	"2024-11-20": "Maharashtra Assembly Elections",
	"2024-12-25": "Christmas",

	// 2025
	"2025-01-26": "Republic Day",
	"2025-02-26": "Mahashivratri",
	"2025-03-14": "Holi",
	"2025-03-31": "Id-Ul-Fitr",
	"2025-04-10": "Shri Mahavir Jayanti",
	"2025-04-14": "Dr. Baba Saheb Ambedkar Jayanti",
	"2025-04-18": "Good Friday",
	"2025-05-01": "Maharashtra Day",
	"2025-08-15": "Independence Day",
	"2025-08-27": "Ganesh Chaturthi",
	"2025-10-02": "Mahatma Gandhi Jayanti",
	"2025-10-21": "Diwali Laxmi Pujan",
	"2025-10-23": "Diwali Balipratipada",
	"2025-11-05": "Gurunanak Jayanti",
	"2025-11-12": "Trading Holiday",
	"2025-12-25": "Christmas",

	// 2026
	"2026-01-26": "Republic Day",
	"2026-03-03": "Holi",
	"2026-03-26": "Shri Ram Navami",
	"2026-03-31": "Shri Mahavir Jayanti",
	"2026-04-03": "Good Friday",
	"2026-04-14": "Dr. Baba Saheb Ambedkar Jayanti",
	"2026-05-01": "Maharashtra Day",
	"2026-05-28": "Bakri Id",
	"2026-06-26": "Muharram",
	"2026-09-14": "Ganesh Chaturthi",
	"2026-10-02": "Mahatma Gandhi Jayanti",
	"2026-10-20": "Dussehra",
	"2026-11-10": "Diwali Balipratipada",
	"2026-11-24": "Gurunanak Jayanti",
	"2026-12-25": "Christmas",
}

// StaticSource answers holiday queries from an in-memory set.
// It never returns an error and is immutable after construction.
type StaticSource struct {
	holidays map[string]string
}

// NewStaticSource creates the fallback source: the hardcoded list plus any
// extra dates supplied by configuration.
func NewStaticSource(extra ...time.Time) *StaticSource {
	holidays := make(map[string]string, len(fallbackHolidays)+len(extra))
	for k, v := range fallbackHolidays {
		holidays[k] = v
	}
	for _, d := range extra {
		key := d.Format(dateLayout)
		if _, exists := holidays[key]; !exists {
			holidays[key] = "Configured Holiday"
		}
	}
	return &StaticSource{holidays: holidays}
}

// Name returns the tier name
func (s *StaticSource) Name() string {
	return string(TierFallback)
}

// IsHoliday reports whether date (calendar fields only) is in the set
func (s *StaticSource) IsHoliday(date time.Time) (bool, error) {
	_, ok := s.holidays[date.Format(dateLayout)]
	return ok, nil
}

// HolidaysInYear lists the set's holidays for a year in date order
func (s *StaticSource) HolidaysInYear(year int) ([]Holiday, error) {
	prefix := fmt.Sprintf("%04d-", year)
	holidays := make([]Holiday, 0)
	for key, desc := range s.holidays {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		date, err := time.ParseInLocation(dateLayout, key, IST)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback holiday %q: %w", key, err)
		}
		holidays = append(holidays, Holiday{Date: date, Description: desc})
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}

// Len returns the number of holidays in the set
func (s *StaticSource) Len() int {
	return len(s.holidays)
}
