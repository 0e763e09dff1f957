// =============================================================================
// Sales Ledger - Read Command
// =============================================================================
//
// COMMAND USAGE:
//   ventas read
//   ventas read --header-row 3
//
// OUTPUT:
//   ┌────────────┬──────────┬─────────────────────┬─────
//   │ Fecha      │ Cantidad │ Nombre del Artículo │ ...
//   ├────────────┼──────────┼─────────────────────┼─────
//   │ 05/01/2024 │ 2        │ Bolsa               │ ...
//   └────────────┴──────────┴─────────────────────┴─────
//   1 sale(s)
//
// Colour is only emitted when stdout is a terminal that supports it.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/spf13/cobra"
)

var readHeaderRow int

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Show the sales recorded in the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := ledgerService().ReadTable(cfg.Workbook, cfg.LedgerSheet, headerRow(readHeaderRow))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No sales recorded.")
			return nil
		}

		r := lipgloss.NewRenderer(out)
		fmt.Fprintln(out, salesTable(r, records))
		fmt.Fprintln(out, newTableStyles(r).muted.Render(fmt.Sprintf("%d sale(s)", len(records))))
		return nil
	},
}

func init() {
	readCmd.Flags().IntVar(&readHeaderRow, "header-row", 0, "Force the 1-based header row instead of detecting it")
	rootCmd.AddCommand(readCmd)
}

// tableStyles are the styles shared by every table the CLI prints.
type tableStyles struct {
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
}

func newTableStyles(r *lipgloss.Renderer) tableStyles {
	return tableStyles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		muted:  r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// newTable returns an empty table with the CLI's borders and cell styles.
// Column widths are measured on the visible text, so styled headers stay
// aligned with their cells.
func newTable(r *lipgloss.Renderer, headers ...string) *table.Table {
	styles := newTableStyles(r)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		})
}

// salesTable lays records out under the ledger's own labels.
func salesTable(r *lipgloss.Renderer, records []types.SaleRecord) *table.Table {
	labels := make([]string, len(types.AllFields))
	for i, field := range types.AllFields {
		labels[i] = types.LedgerHeaders[field]
	}

	t := newTable(r, labels...)
	for _, record := range records {
		cells := make([]string, len(types.AllFields))
		for i, field := range types.AllFields {
			cells[i] = formatValue(record, field)
		}
		t.Row(cells...)
	}
	return t
}

// formatValue renders one field for display.
func formatValue(record types.SaleRecord, field types.CanonicalField) string {
	if !record.Has(field) {
		return "-"
	}
	if t, ok := record.Date(field); ok {
		return t.Format("02/01/2006")
	}
	if n, ok := record.Float(field); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return record.Text(field)
}
