// =============================================================================
// Sales Ledger - Main Entry Point
// =============================================================================
//
// USAGE:
//   ventas init       - Create a ledger workbook with the seed catalog
//   ventas append     - Record one sale
//   ventas read       - Show the recorded sales
//   ventas catalog    - List and edit the item catalog
//   ventas version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/                 : CLI command definitions (Cobra)
//   - internal/workbook    : Open, create and atomically save workbooks
//   - internal/xlsxparser  : Header location and table reading
//   - internal/ledger      : Append-row location, record writing, service
//   - internal/catalog     : Item catalog sheet
//   - internal/config      : YAML configuration
//   - internal/validation  : Sale input checks
//   - pkg/utils            : Text normalization, file management
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-ledger/cmd"
)

func main() {
	cmd.Execute()
}
