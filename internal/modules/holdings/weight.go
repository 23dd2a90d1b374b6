package holdings

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseWeight reads a percentage cell such as "4.56%", "4,56", "0.0456" or
// "(1.20)". Commas are decimal separators unless a dot is also present, in
// which case they group thousands.
func ParseWeight(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	v = strings.TrimSuffix(v, "%")
	v = strings.Join(strings.Fields(v), "")

	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	}

	if strings.Contains(v, ".") {
		v = strings.ReplaceAll(v, ",", "")
	} else {
		v = strings.ReplaceAll(v, ",", ".")
	}

	if v == "" {
		return decimal.Zero, fmt.Errorf("empty weight")
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid weight %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}
