package market_hours

import "time"

// ExchangeCode is the MIC of the only venue the calendar serves
const ExchangeCode = "XNSE"

// dateLayout is the key format for holiday lookups
const dateLayout = "2006-01-02"

// maxWalkDays bounds business-day walks. Realistic NSE data never has more than
// a handful of consecutive closures.
const maxWalkDays = 31

// IST is India Standard Time. India observes no daylight saving, so the fixed
// zone is exact when tzdata is unavailable.
var IST = loadLocation("Asia/Kolkata", 5*60*60+30*60)

// NSE is the National Stock Exchange session configuration
var NSE = ExchangeConfig{
	Code: ExchangeCode,
	Name: "National Stock Exchange of India",
	TradingHours: TradingHours{
		OpenHour:    9,
		OpenMinute:  15,
		CloseHour:   15,
		CloseMinute: 30,
	},
	Timezone: IST,
}

func loadLocation(name string, offsetSeconds int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offsetSeconds)
	}
	return loc
}

// civilDate strips the time of day, keeping the date's own calendar fields
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
