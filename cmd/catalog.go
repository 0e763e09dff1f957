// =============================================================================
// Sales Ledger - Catalog Commands
// =============================================================================
//
// COMMAND USAGE:
//   ventas catalog list
//   ventas catalog set "Bolsa=120" "Camiseta=150,50"    # replace the catalog
//   ventas catalog add Falda 280                        # add or reprice one item
//   ventas catalog remove Falda
//
// Every edit loads the current catalog, changes it in memory and saves the
// whole sheet back.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ginjaninja78/sales-ledger/internal/catalog"
	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List and edit the item catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := catalogStore().Load(cfg.Workbook)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, catalogTable(lipgloss.NewRenderer(out), entries))
		return nil
	},
}

var catalogSetCmd = &cobra.Command{
	Use:   "set name=price...",
	Short: "Replace the whole catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make([]types.CatalogEntry, 0, len(args))
		for _, arg := range args {
			name, price, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return fmt.Errorf("invalid entry %q, expected name=price", arg)
			}
			entries = append(entries, types.CatalogEntry{Name: name, Price: catalog.ParsePrice(price)})
		}

		if err := catalogStore().Save(cfg.Workbook, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog saved with %d item(s)\n", len(catalog.Clean(entries)))
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add name price",
	Short: "Add an item, or change the price of an existing one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := catalogStore()
		entries, err := store.Load(cfg.Workbook)
		if err != nil {
			return err
		}

		// Save keeps the last of two matching names, so appending is enough to
		// update an existing item.
		entries = append(entries, types.CatalogEntry{Name: args[0], Price: catalog.ParsePrice(args[1])})

		if err := store.Save(cfg.Workbook, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q\n", strings.TrimSpace(args[0]))
		return nil
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove name",
	Short: "Remove an item from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := catalogStore()
		entries, err := store.Load(cfg.Workbook)
		if err != nil {
			return err
		}

		key := utils.Normalize(args[0])
		kept := entries[:0]
		for _, e := range entries {
			if utils.Normalize(e.Name) != key {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(entries) {
			return fmt.Errorf("item %q is not in the catalog", args[0])
		}

		if err := store.Save(cfg.Workbook, kept); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
		return nil
	},
}

// catalogTable lays the catalog out as name and price columns.
func catalogTable(r *lipgloss.Renderer, entries []types.CatalogEntry) *table.Table {
	t := newTable(r, catalog.NameHeader, catalog.PriceHeader)
	for _, e := range entries {
		t.Row(e.Name, strconv.FormatFloat(e.Price, 'f', 2, 64))
	}
	return t
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogSetCmd, catalogAddCmd, catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}
