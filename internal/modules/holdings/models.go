// Package holdings turns portfolio disclosure spreadsheets published by asset
// management companies into validated holdings.
package holdings

import (
	"errors"
	"time"

	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/shopspring/decimal"
)

// Errors returned while ingesting a disclosure
var (
	ErrNoHeaderRow             = errors.New("no header row found")
	ErrMissingIdentifierColumn = errors.New("header row has no ISIN column")
	ErrUnsupportedFormat       = errors.New("unsupported file format")
	ErrUploadNotFound          = errors.New("upload not found")
)

// Table is a decoded sheet: raw cell text, row-major, rows may be ragged
type Table struct {
	Sheet string
	Rows  [][]string
}

// Holding is one validated position of a disclosure
type Holding struct {
	ISIN   string          `json:"isin"`
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"` // Percent of net assets
}

// Extraction is the outcome of reading holdings from a table
type Extraction struct {
	HeaderRow int             `json:"header_row"` // Zero-based row index of the header
	Mapping   columns.Mapping `json:"mapping"`
	Holdings  []Holding       `json:"holdings"`
	Skipped   int             `json:"skipped"` // Holdings kept with an unparsable weight
	Ignored   int             `json:"ignored"` // Rows without a valid ISIN (totals, section titles)
	Scaled    bool            `json:"scaled"`  // Weights were fractions and scaled to percent
}

// Summary describes the concentration of a holdings list
type Summary struct {
	Count        int             `json:"count"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	TopTenWeight decimal.Decimal `json:"top_ten_weight"`
	Herfindahl   float64         `json:"herfindahl"` // Sum of squared percent shares, 0-10000
}

// Result is a processed upload
type Result struct {
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	Sheet     string    `json:"sheet,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Extraction
	Summary Summary `json:"summary"`
}

// Upload is the stored record of a processed upload
type Upload struct {
	ID            string          `json:"id"`
	Filename      string          `json:"filename"`
	Sheet         string          `json:"sheet,omitempty"`
	HeaderRow     int             `json:"header_row"`
	HoldingsCount int             `json:"holdings_count"`
	Skipped       int             `json:"skipped"`
	TotalWeight   decimal.Decimal `json:"total_weight"`
	CreatedAt     time.Time       `json:"created_at"`
}
