// =============================================================================
// Sales Ledger - Record Writer
// =============================================================================
//
// This module writes one sale into its row. It only mutates the in-memory
// workbook; persisting is the caller's single, final step, so a failure on any
// cell leaves the file on disk untouched.
//
// COERCION RULES:
//   - Date:      time values become midnight of the same calendar day. The
//                cell gets a date-only format unless it already has a style.
//   - ItemName:  always written as text.
//   - TotalSale: derived as Quantity x UnitPrice when the sheet has the column
//                and the record leaves it empty.
//   - Others:    written as given (numbers as numbers, text as text).
//
// =============================================================================

package ledger

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// LedgerDateFormat is the number format applied to unstyled date cells.
const LedgerDateFormat = "dd/mm/yyyy"

// WriteRecord writes record into row of sheet according to loc.
//
// PARAMETERS:
//   - f: The open workbook (mutated in memory only).
//   - sheet: The ledger sheet.
//   - loc: The located header.
//   - row: The 1-based target row, usually from FindAppendRow.
//   - record: The sale. It is not modified.
//
// RETURNS:
//   - A report of the header row, written row and fields that got a value.
//   - An error on the first cell that cannot be written.
func WriteRecord(f *excelize.File, sheet string, loc *xlsxparser.HeaderLocation, row int, record types.SaleRecord) (types.WriteReport, error) {
	if row <= loc.Row {
		return types.WriteReport{}, types.NewLedgerError("write", sheet,
			fmt.Errorf("target row %d is not below header row %d", row, loc.Row))
	}

	record = withDerivedTotal(loc.Columns, record)

	report := types.WriteReport{
		HeaderRow:  loc.Row,
		WrittenRow: row,
	}

	for _, field := range types.AllFields {
		col, mapped := loc.Columns[field]
		if !mapped || !record.Has(field) {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return types.WriteReport{}, types.NewLedgerError("write", sheet, err)
		}

		value := coerce(field, record[field])
		if err := setCell(f, sheet, cell, value); err != nil {
			return types.WriteReport{}, types.NewLedgerError("write", sheet,
				fmt.Errorf("field %s at %s: %w", field, cell, err))
		}

		report.FieldsWritten = append(report.FieldsWritten, field)
	}

	return report, nil
}

// setCell writes one value. A date landing in a cell whose style (its own, or
// the row or column style it inherits) has no number format gets the ledger
// date format. Borders, fonts and fills of that style are kept.
func setCell(f *excelize.File, sheet, cell string, value any) error {
	if _, isTime := value.(time.Time); !isTime {
		return f.SetCellValue(sheet, cell, value)
	}

	base, err := resolvedStyle(f, sheet, cell)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}

	if hasNumberFormat(base) {
		return nil
	}

	format := LedgerDateFormat
	style := excelize.Style{}
	if base != nil {
		style = *base
	}
	style.NumFmt = 0
	style.CustomNumFmt = &format

	styleID, err := f.NewStyle(&style)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, styleID)
}

// resolvedStyle returns the style a cell displays with before it is written,
// or nil when it has none.
func resolvedStyle(f *excelize.File, sheet, cell string) (*excelize.Style, error) {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return nil, err
	}
	return f.GetStyle(styleID)
}

// hasNumberFormat reports whether a style carries a number format other than
// General.
func hasNumberFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return true
	}
	return style.NumFmt != 0
}

// coerce applies the per-field write rules.
func coerce(field types.CanonicalField, value any) any {
	switch field {
	case types.FieldDate:
		if t, ok := value.(time.Time); ok {
			return xlsxparser.DateOnly(t)
		}
	case types.FieldItemName:
		if _, ok := value.(string); !ok {
			return fmt.Sprint(value)
		}
	}
	return value
}

// withDerivedTotal fills TotalSale from Quantity and UnitPrice when the sheet
// has a TotalSale column and the record leaves it empty. When either operand
// is missing or not numeric TotalSale stays absent; the write goes ahead.
func withDerivedTotal(columns types.HeaderMap, record types.SaleRecord) types.SaleRecord {
	if _, mapped := columns[types.FieldTotalSale]; !mapped || record.Has(types.FieldTotalSale) {
		return record
	}

	qty, okQty := record.Float(types.FieldQuantity)
	price, okPrice := record.Float(types.FieldUnitPrice)
	if !okQty || !okPrice {
		return record
	}

	out := make(types.SaleRecord, len(record)+1)
	for k, v := range record {
		out[k] = v
	}
	out[types.FieldTotalSale] = decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).InexactFloat64()
	return out
}
