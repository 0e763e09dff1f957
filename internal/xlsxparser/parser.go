// =============================================================================
// Sales Ledger - Ledger Header Locator
// =============================================================================
//
// This module finds the ledger table inside a sheet whose layout is not fixed.
// Shops keep dashboards, totals and notes in the same sheet as the sales, so
// the header row can sit anywhere, its labels vary in accents and spelling,
// and the column order changes between workbooks.
//
// LOCATION STRATEGY:
//   1. If the caller forces a header row that exists in the sheet, use it.
//   2. Otherwise scan rows top to bottom (bounded by ScanRows, ScanCols) and
//      take the first row whose labels resolve to Date, Quantity and ItemName
//      and include at least one literal ledger label (Fecha, Cantidad or
//      Nombre del Artículo).
//   3. Build the field -> column map from that row through the synonym table.
//   4. Apply column overrides last; they win over discovered columns.
//
// EXAMPLE SHEET:
//
//   | A              | B        | C                   | D              | ...
//   |----------------|----------|---------------------|----------------|
//   | Resumen enero  |          | Total: 12.400       |                |
//   |                |          |                     |                |
//   | FECHA          | Cantidad | Nombre del Artículo | Método de pago | ...   <- header (row 3)
//   | 05/01/2024     | 2        | Bolsa               | E              | ...
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LOCATE OPTIONS
// =============================================================================

// LocateOptions bounds and steers the header search.
type LocateOptions struct {
	// ScanRows is the number of rows searched for the header row.
	// Default: 300
	ScanRows int

	// ScanCols is the number of cells read from each scanned row.
	// Default: 50
	ScanCols int

	// ForcedRow is a 1-based header row chosen by the caller for sheets where
	// detection picks the wrong row. Zero means detect. A forced row beyond
	// the end of the sheet is ignored and detection runs instead.
	ForcedRow int

	// ColumnOverrides pins fields to 1-based columns regardless of the header
	// text. Pinned fields also count as present when qualifying a header row.
	ColumnOverrides map[types.CanonicalField]int
}

// DefaultLocateOptions returns the scan bounds used when none are configured.
func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		ScanRows: 300,
		ScanCols: 50,
	}
}

func (o LocateOptions) withDefaults() LocateOptions {
	def := DefaultLocateOptions()
	if o.ScanRows <= 0 {
		o.ScanRows = def.ScanRows
	}
	if o.ScanCols <= 0 {
		o.ScanCols = def.ScanCols
	}
	return o
}

// HeaderLocation is the result of a successful Locate.
type HeaderLocation struct {
	// Row is the 1-based header row.
	Row int

	// Columns maps each managed field to its 1-based column.
	Columns types.HeaderMap

	// Forced is true when Row came from LocateOptions.ForcedRow.
	Forced bool
}

// =============================================================================
// LOCATOR
// =============================================================================

// Locate finds the ledger header in sheet.
//
// PARAMETERS:
//   - f: The open workbook.
//   - sheet: The ledger sheet name.
//   - opts: Scan bounds, forced row and column overrides.
//
// RETURNS:
//   - The header row and its field -> column map.
//   - types.ErrSheetNotFound if the sheet does not exist.
//   - types.ErrHeaderNotFound if no scanned row qualifies. A partial or
//     guessed mapping is never returned.
func Locate(f *excelize.File, sheet string, opts LocateOptions) (*HeaderLocation, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, types.NewLedgerError("locate", sheet, types.ErrSheetNotFound)
	}

	opts = opts.withDefaults()

	var loc *HeaderLocation

	// Forced row: build the map directly from it, no scanning.
	if opts.ForcedRow > 0 {
		cells, found, err := readRow(f, sheet, opts.ForcedRow, opts.ScanCols)
		if err != nil {
			return nil, types.NewLedgerError("locate", sheet, err)
		}
		if found {
			loc = &HeaderLocation{
				Row:     opts.ForcedRow,
				Columns: buildHeaderMap(cells),
				Forced:  true,
			}
		}
	}

	// Detection: first row (top to bottom) holding every required field.
	if loc == nil {
		err := ScanRows(f, sheet, 1, opts.ScanRows, opts.ScanCols, func(rowNum int, cells []string) bool {
			columns := buildHeaderMap(cells)
			if !qualifies(columns, opts.ColumnOverrides) || !hasAnchor(cells) {
				return true
			}
			loc = &HeaderLocation{Row: rowNum, Columns: columns}
			return false
		})
		if err != nil {
			return nil, types.NewLedgerError("locate", sheet, err)
		}
	}

	if loc == nil {
		return nil, types.NewLedgerError("locate", sheet,
			fmt.Errorf("%w within the first %d rows", types.ErrHeaderNotFound, opts.ScanRows))
	}

	// Overrides take precedence over discovered columns.
	for field, col := range opts.ColumnOverrides {
		if col > 0 {
			loc.Columns[field] = col
		}
	}

	return loc, nil
}

// buildHeaderMap resolves each cell of a row through the synonym table.
// Unresolved cells are skipped; when a field appears twice the leftmost
// column wins.
func buildHeaderMap(cells []string) types.HeaderMap {
	columns := make(types.HeaderMap)
	for i, cell := range cells {
		field, ok := ResolveHeader(cell)
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i + 1
		}
	}
	return columns
}

// qualifies reports whether a row's map holds every required field, counting
// pinned fields as present.
func qualifies(columns types.HeaderMap, overrides map[types.CanonicalField]int) bool {
	for _, field := range columns.Missing(types.RequiredFields...) {
		if overrides[field] <= 0 {
			return false
		}
	}
	return true
}

// hasAnchor reports whether any cell is a literal ledger label.
func hasAnchor(cells []string) bool {
	for _, cell := range cells {
		if isAnchor(utils.Normalize(cell)) {
			return true
		}
	}
	return false
}

// =============================================================================
// ROW ITERATION
// =============================================================================

// ScanRows streams raw cell values of rows [from, from+maxRows) to visit,
// truncating each row to maxCols cells. maxRows <= 0 means until the end of
// the sheet. visit returns false to stop early.
//
// Rows are streamed rather than loaded with GetRows so that a huge sheet costs
// no more than the rows actually visited.
func ScanRows(f *excelize.File, sheet string, from, maxRows, maxCols int, visit func(rowNum int, cells []string) bool) error {
	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	for rowNum := 1; rows.Next(); rowNum++ {
		if maxRows > 0 && rowNum >= from+maxRows {
			break
		}
		if rowNum < from {
			continue
		}

		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}
		if maxCols > 0 && len(cells) > maxCols {
			cells = cells[:maxCols]
		}

		if !visit(rowNum, cells) {
			break
		}
	}

	return rows.Error()
}

// readRow returns the cells of one row and whether the row is inside the
// sheet's bounds.
func readRow(f *excelize.File, sheet string, rowNum, maxCols int) ([]string, bool, error) {
	var (
		cells []string
		found bool
	)
	err := ScanRows(f, sheet, rowNum, 1, maxCols, func(_ int, c []string) bool {
		cells, found = c, true
		return false
	})
	return cells, found, err
}

// CellAt returns the cell at a 1-based column, or "" past the end of the row.
func CellAt(cells []string, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}
