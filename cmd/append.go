// =============================================================================
// Sales Ledger - Append Command
// =============================================================================
//
// COMMAND USAGE:
//   ventas append --date 05/01/2024 --qty 2 --item Bolsa --pay E
//   ventas append --qty 1 --item "Pantalón" --pay T --price 340 --comment "rebaja"
//
// FLOW:
//   1. Read the flags into a sale input
//   2. Fill the unit price from the catalog when --price is not given
//   3. Validate the input
//   4. Append it to the ledger sheet
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/catalog"
	"github.com/ginjaninja78/sales-ledger/internal/validation"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/spf13/cobra"
)

// appendFlags holds the values of the append command flags.
type appendFlags struct {
	date      string
	quantity  float64
	item      string
	payment   string
	price     float64
	total     float64
	comment   string
	headerRow int
}

var appendOpts appendFlags

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Record one sale in the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAppend(cmd, appendOpts)
	},
}

func init() {
	f := appendCmd.Flags()
	f.StringVar(&appendOpts.date, "date", "", "Sale date (dd/mm/yyyy or yyyy-mm-dd, default today)")
	f.Float64Var(&appendOpts.quantity, "qty", 0, "Quantity sold")
	f.StringVar(&appendOpts.item, "item", "", "Item name")
	f.StringVar(&appendOpts.payment, "pay", "", "Payment method: E (efectivo) or T (tarjeta)")
	f.Float64Var(&appendOpts.price, "price", 0, "Unit price (default: catalog price of the item)")
	f.Float64Var(&appendOpts.total, "total", 0, "Total sale (default: quantity x unit price)")
	f.StringVar(&appendOpts.comment, "comment", "", "Free-text comment")
	f.IntVar(&appendOpts.headerRow, "header-row", 0, "Force the 1-based header row instead of detecting it")

	_ = appendCmd.MarkFlagRequired("qty")
	_ = appendCmd.MarkFlagRequired("item")
	_ = appendCmd.MarkFlagRequired("pay")

	rootCmd.AddCommand(appendCmd)
}

func runAppend(cmd *cobra.Command, opts appendFlags) error {
	// =========================================================================
	// STEP 1: BUILD INPUT
	// =========================================================================

	date := time.Now()
	if opts.date != "" {
		parsed, ok := xlsxparser.ParseDate(opts.date, false)
		if !ok {
			return fmt.Errorf("invalid --date %q", opts.date)
		}
		date = parsed
	}

	input := validation.SaleInput{
		Date:          date,
		Quantity:      opts.quantity,
		ItemName:      opts.item,
		PaymentMethod: strings.ToUpper(strings.TrimSpace(opts.payment)),
		UnitPrice:     opts.price,
		TotalSale:     opts.total,
		Comment:       opts.comment,
	}

	// =========================================================================
	// STEP 2: CATALOG PRICE
	// =========================================================================

	if !cmd.Flags().Changed("price") {
		entries, err := catalogStore().Load(cfg.Workbook)
		if err != nil {
			return err
		}
		if entry, ok := catalog.Lookup(entries, input.ItemName); ok {
			input.ItemName = entry.Name
			input.UnitPrice = entry.Price
		}
	}

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	if errs := validation.NewValidator().Validate(input); len(errs) > 0 {
		return errors.New(validation.FormatErrors(errs))
	}

	// =========================================================================
	// STEP 4: APPEND
	// =========================================================================

	report, err := ledgerService().AppendSale(cfg.Workbook, cfg.LedgerSheet, input.ToRecord(), headerRow(opts.headerRow))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sale recorded in row %d of %q (header row %d)\n",
		report.WrittenRow, cfg.LedgerSheet, report.HeaderRow)
	return nil
}
