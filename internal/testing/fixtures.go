package testing

import (
	"strings"
	"sync"
	"time"
)

// NewISINFixtures returns a set of valid Indian equity ISINs for use in tests
func NewISINFixtures() []string {
	return []string{
		"INE002A01018", // Reliance Industries
		"INE040A01034", // HDFC Bank
		"INE009A01021", // Infosys
		"INE467B01029", // Tata Consultancy Services
		"INE090A01021", // ICICI Bank
	}
}

// NewDisclosureCSV returns a portfolio disclosure in the shape AMCs publish:
// title rows above the header row and a totals row at the end.
func NewDisclosureCSV() string {
	return strings.Join([]string{
		"ABC Mutual Fund,,,,",
		"Monthly Portfolio Statement as on 31-Jan-2024,,,,",
		",,,,",
		"Name of the Instrument,ISIN,Industry,Quantity,% to Net Assets",
		"Reliance Industries Ltd,INE002A01018,Petroleum Products,1000,8.52%",
		"HDFC Bank Ltd,INE040A01034,Banks,2000,7.10%",
		"Infosys Ltd,INE009A01021,IT - Software,1500,5.25%",
		"Total,,,,20.87%",
	}, "\n") + "\n"
}

// MockHolidaySource is a configurable holiday source for calendar tests.
// It is safe for concurrent use and counts lookups.
type MockHolidaySource struct {
	mu       sync.Mutex
	name     string
	holidays map[string]bool
	err      error
	calls    int
}

// NewMockHolidaySource creates a mock source holding the given YYYY-MM-DD dates
func NewMockHolidaySource(name string, dates ...string) *MockHolidaySource {
	holidays := make(map[string]bool, len(dates))
	for _, d := range dates {
		holidays[d] = true
	}
	return &MockHolidaySource{name: name, holidays: holidays}
}

// SetError makes subsequent lookups fail with err (nil clears it)
func (m *MockHolidaySource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of IsHoliday invocations
func (m *MockHolidaySource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Name returns the configured source name
func (m *MockHolidaySource) Name() string {
	return m.name
}

// IsHoliday reports whether date is configured as a holiday
func (m *MockHolidaySource) IsHoliday(date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.holidays[date.Format("2006-01-02")], nil
}
