package holdings

import (
	"strings"

	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/shopspring/decimal"
)

// maxHeaderScan is how many leading rows may hold title text above the header
const maxHeaderScan = 30

var (
	fractionCeiling = decimal.NewFromInt(1)
	fractionTotal   = decimal.NewFromFloat(1.5)
	hundred         = decimal.NewFromInt(100)
)

// FindHeaderRow locates the header row using the default rule table
func FindHeaderRow(table Table) (int, columns.Mapping, error) {
	return FindHeaderRowWith(nil, table)
}

// FindHeaderRowWith locates the header row: the first of the leading rows
// whose normalization maps the identifier and at least one other field.
// A nil normalizer means the default rule table.
func FindHeaderRowWith(normalizer *columns.Normalizer, table Table) (int, columns.Mapping, error) {
	if normalizer == nil {
		normalizer = columns.NewNormalizer()
	}
	sawFieldsWithoutISIN := false

	for i, row := range table.Rows {
		if i >= maxHeaderScan {
			break
		}

		mapping := normalizer.Normalize(row)
		if mapping.Len() < 2 {
			continue
		}
		if !mapping.Has(columns.FieldIdentifier) {
			sawFieldsWithoutISIN = true
			continue
		}
		return i, mapping, nil
	}

	if sawFieldsWithoutISIN {
		return -1, columns.Mapping{}, ErrMissingIdentifierColumn
	}
	return -1, columns.Mapping{}, ErrNoHeaderRow
}

// Parse finds the header row of a table and extracts its holdings
func Parse(table Table) (Extraction, error) {
	return ParseWith(nil, table)
}

// ParseWith is Parse with a custom normalizer
func ParseWith(normalizer *columns.Normalizer, table Table) (Extraction, error) {
	headerRow, mapping, err := FindHeaderRowWith(normalizer, table)
	if err != nil {
		return Extraction{}, err
	}
	return Extract(table, headerRow, mapping), nil
}

// Extract reads the rows below headerRow. Rows whose identifier cell is not a
// valid ISIN are ignored. A holding whose weight cannot be parsed is kept
// with zero weight and counted as skipped.
func Extract(table Table, headerRow int, mapping columns.Mapping) Extraction {
	result := Extraction{
		HeaderRow: headerRow,
		Mapping:   mapping,
		Holdings:  make([]Holding, 0),
	}

	isinCol, ok := mapping.Index(columns.FieldIdentifier)
	if !ok {
		return result
	}
	nameCol, hasName := mapping.Index(columns.FieldName)
	weightCol, hasWeight := mapping.Index(columns.FieldWeight)

	for _, row := range table.Rows[headerRow+1:] {
		isin := NormalizeISIN(cell(row, isinCol))
		if ValidateISIN(isin) != nil {
			result.Ignored++
			continue
		}

		h := Holding{ISIN: isin, Weight: decimal.Zero}
		if hasName {
			h.Name = strings.Join(strings.Fields(cell(row, nameCol)), " ")
		}
		if hasWeight {
			if w, err := ParseWeight(cell(row, weightCol)); err == nil {
				h.Weight = w
			} else {
				result.Skipped++
			}
		}

		result.Holdings = append(result.Holdings, h)
	}

	result.Scaled = scaleFractions(result.Holdings)
	return result
}

// scaleFractions converts weights to percent when the sheet reports them as
// fractions of one: every weight at most 1 and a total no larger than 1.5.
func scaleFractions(holdings []Holding) bool {
	total := decimal.Zero
	for _, h := range holdings {
		if h.Weight.GreaterThan(fractionCeiling) {
			return false
		}
		total = total.Add(h.Weight)
	}
	if !total.IsPositive() || total.GreaterThan(fractionTotal) {
		return false
	}

	for i := range holdings {
		holdings[i].Weight = holdings[i].Weight.Mul(hundred)
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
