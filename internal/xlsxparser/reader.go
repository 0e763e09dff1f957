package xlsxparser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TABLE READER
// =============================================================================

// dateLayouts are the text forms a hand-typed Fecha cell is accepted in.
// Day-first forms precede month-first ones since the ledgers are Spanish.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02/01/06",
}

// ReadTable reads the ledger rows below the header back into records.
//
// The walk starts at the row after the header and stops at the first row
// whose Date cell is empty, the same rule the append locator uses. Cells are
// coerced back to dates and numbers; values that do not parse are left out of
// the record rather than failing the read.
//
// RETURNS:
//   - The records in sheet order. An empty result, not an error, when the
//     sheet or its header cannot be found, since reads only feed displays.
//   - An error only for failures reading the workbook itself.
func ReadTable(f *excelize.File, sheet string, opts LocateOptions) ([]types.SaleRecord, error) {
	loc, err := Locate(f, sheet, opts)
	if err != nil {
		if errors.Is(err, types.ErrHeaderNotFound) || errors.Is(err, types.ErrSheetNotFound) {
			return nil, nil
		}
		return nil, err
	}

	dateCol, ok := loc.Columns[types.FieldDate]
	if !ok {
		return nil, nil
	}

	date1904 := Uses1904(f)
	var records []types.SaleRecord

	err = ScanRows(f, sheet, loc.Row+1, 0, 0, func(_ int, cells []string) bool {
		if strings.TrimSpace(CellAt(cells, dateCol)) == "" {
			return false
		}
		records = append(records, decodeRow(cells, loc.Columns, date1904))
		return true
	})
	if err != nil {
		return nil, types.NewLedgerError("read", sheet, err)
	}

	return records, nil
}

// decodeRow applies the inverse coercion rules to one raw row.
func decodeRow(cells []string, columns types.HeaderMap, date1904 bool) types.SaleRecord {
	record := make(types.SaleRecord, len(columns))

	for field, col := range columns {
		raw := strings.TrimSpace(CellAt(cells, col))
		if raw == "" {
			continue
		}

		switch field {
		case types.FieldDate:
			if t, ok := ParseDate(raw, date1904); ok {
				record[field] = t
			}
		case types.FieldQuantity, types.FieldUnitPrice, types.FieldTotalSale:
			if n, ok := ParseNumber(raw); ok {
				record[field] = n
			}
		default:
			record[field] = raw
		}
	}

	return record
}

// =============================================================================
// COERCION HELPERS
// =============================================================================

// ParseDate turns a raw cell value into a calendar date at midnight UTC.
// Serial numbers are decoded with the workbook's epoch; text is tried against
// the accepted layouts.
func ParseDate(raw string, date1904 bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, false
		}
		return DateOnly(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), true
		}
	}

	return time.Time{}, false
}

// ParseNumber parses a raw numeric cell value.
func ParseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DateOnly drops the time of day, keeping the calendar date as written.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Uses1904 reports whether serial dates in the workbook use the 1904 epoch.
func Uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	if err != nil || props.Date1904 == nil {
		return false
	}
	return *props.Date1904
}
