package ledger

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/xuri/excelize/v2"
)

// FindAppendRow returns the 1-based row a new sale should be written to.
//
// Only the Date column decides whether a row is taken. Ledger sheets often
// carry pre-filled formulas, zero placeholders or decoration in the other
// columns below the last sale; those rows are still free and must be reused,
// not skipped.
//
// RETURNS:
//   - The first row below the header whose Date cell is empty, or one past
//     the last row of the sheet. Always greater than the header row.
//   - types.ErrMissingKeyColumn if the header has no Date column.
func FindAppendRow(f *excelize.File, sheet string, loc *xlsxparser.HeaderLocation) (int, error) {
	dateCol, ok := loc.Columns[types.FieldDate]
	if !ok {
		return 0, types.NewLedgerError("append", sheet,
			fmt.Errorf("%w: %s", types.ErrMissingKeyColumn, types.FieldDate))
	}

	target := loc.Row + 1
	err := xlsxparser.ScanRows(f, sheet, loc.Row+1, 0, 0, func(rowNum int, cells []string) bool {
		if strings.TrimSpace(xlsxparser.CellAt(cells, dateCol)) == "" {
			target = rowNum
			return false
		}
		target = rowNum + 1
		return true
	})
	if err != nil {
		return 0, types.NewLedgerError("append", sheet, err)
	}

	return target, nil
}
