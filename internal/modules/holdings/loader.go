package holdings

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load decodes a disclosure file, choosing the decoder by file extension.
// sheet selects a workbook sheet; empty means the first sheet.
func Load(filename string, r io.Reader, sheet string) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return LoadWorkbook(r, sheet)
	case ".csv":
		return LoadCSV(r)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// LoadWorkbook reads one sheet of an Office Open XML workbook
func LoadWorkbook(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to open workbook: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Table{}, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return Table{Sheet: sheet, Rows: rows}, nil
}

// LoadCSV reads a comma-separated disclosure. Ragged rows are allowed.
func LoadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	return Table{Rows: rows}, nil
}
