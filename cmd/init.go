// =============================================================================
// Sales Ledger - Init Command
// =============================================================================
//
// This file implements "ventas init", which creates a new workbook:
//
//   - The ledger sheet, holding only the header row
//   - The catalog sheet, holding the seed items
//
// Both sheets are built in memory and the file is written once, so a failure
// leaves nothing behind. An existing workbook is never touched.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ginjaninja78/sales-ledger/internal/catalog"
	"github.com/ginjaninja78/sales-ledger/internal/config"
	"github.com/ginjaninja78/sales-ledger/internal/workbook"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new ledger workbook",
	Long: `Create the workbook with an empty ledger sheet (header row only) and a
catalog sheet holding the seed items. An existing workbook is never
overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := createWorkbook(cfg, fileManager(), slog.Default()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (ledger %q, catalog %q with %d items)\n",
			cfg.Workbook, cfg.LedgerSheet, cfg.CatalogSheet, len(catalog.DefaultEntries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// createWorkbook builds the ledger and catalog sheets and saves them together.
func createWorkbook(c *config.Config, fm *utils.FileManager, logger *slog.Logger) error {
	doc, err := workbook.NewLedger(c.Workbook, c.LedgerSheet, fm, logger)
	if err != nil {
		return err
	}
	defer doc.Close()

	store := catalog.NewStore(c.CatalogSheet, fm, logger)
	if err := store.Write(doc, catalog.DefaultEntries); err != nil {
		return err
	}

	return doc.Save()
}
