package holdings

import (
	"fmt"
	"regexp"
	"strings"
)

var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// NormalizeISIN uppercases an identifier cell and drops whitespace
func NormalizeISIN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// ValidateISIN checks ISO 6166 structure and the Luhn check digit
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}

	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 letters, 9 alphanumeric chars and 1 digit")
	}

	// Letters expand to two digits (A=10 ... Z=35)
	var digits []int
	for _, c := range isin[:11] {
		if c >= 'A' && c <= 'Z' {
			v := int(c-'A') + 10
			digits = append(digits, v/10, v%10)
		} else {
			digits = append(digits, int(c-'0'))
		}
	}

	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
		}
		sum += d/10 + d%10
		double = !double
	}

	expected := (10 - sum%10) % 10
	if actual := int(isin[11] - '0'); actual != expected {
		return fmt.Errorf("invalid check digit: expected %d, got %d", expected, actual)
	}

	return nil
}
