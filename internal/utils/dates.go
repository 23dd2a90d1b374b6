package utils

import (
	"fmt"
	"strings"
	"time"
)

// APIDateLayout is the DD-MM-YYYY format NAV providers expect
const APIDateLayout = "02-01-2006"

// dateLayouts are tried in order by ParseDate. Day and month may be one or
// two digits in every layout.
var dateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
}

// ParseDate parses a date in YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY form, with
// or without zero padding. The result is midnight UTC of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// FormatAPIDate formats a date as DD-MM-YYYY
func FormatAPIDate(t time.Time) string {
	return t.Format(APIDateLayout)
}
