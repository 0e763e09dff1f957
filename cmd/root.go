// =============================================================================
// Sales Ledger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ventas)
//   ├── initCmd    (ventas init)
//   ├── appendCmd  (ventas append)
//   ├── readCmd    (ventas read)
//   ├── catalogCmd (ventas catalog list|set|add|remove)
//   └── versionCmd (ventas version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later wins:
//   1. Built-in defaults
//   2. The YAML file given by --config (default config.yaml, optional)
//   3. VENTAS_* environment variables
//   4. Command-line flags
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/sales-ledger/internal/catalog"
	"github.com/ginjaninja78/sales-ledger/internal/config"
	"github.com/ginjaninja78/sales-ledger/internal/ledger"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// cfg is the resolved configuration, set before any subcommand runs.
var cfg *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ventas",
	Short: "Sales Ledger - Record point-of-sale sales in a spreadsheet workbook",
	Long: `Sales Ledger records shop sales as rows of a spreadsheet ledger and keeps
the item catalog in the same workbook.

The ledger sheet may be edited by hand: the header row is found wherever it
sits, labels are matched regardless of accents, case and spacing, and new
sales go into the first row with an empty date.

Example Usage:
  ventas init                                   # Create a new workbook
  ventas append --date 2024-01-05 --qty 2 --item Bolsa --pay E
  ventas read                                   # Show the recorded sales
  ventas catalog list                           # Show the item catalog`,

	PersistentPreRunE: initConfig,
	SilenceUsage:      true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
	flags.StringP("workbook", "w", "", "Path to the ledger workbook")
	flags.String("sheet", "", "Ledger sheet name")
	flags.String("catalog-sheet", "", "Catalog sheet name")
	flags.String("backup-dir", "", "Directory receiving a copy of the workbook before each save")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")

	_ = viper.BindPFlag("workbook", flags.Lookup("workbook"))
	_ = viper.BindPFlag("ledger_sheet", flags.Lookup("sheet"))
	_ = viper.BindPFlag("catalog_sheet", flags.Lookup("catalog-sheet"))
	_ = viper.BindPFlag("backup_dir", flags.Lookup("backup-dir"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
}

// initConfig loads the configuration file, overlays environment variables
// and flags, and installs the logger.
func initConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	viper.SetEnvPrefix("VENTAS")
	viper.AutomaticEnv()

	overlay(&loaded.Workbook, "workbook")
	overlay(&loaded.LedgerSheet, "ledger_sheet")
	overlay(&loaded.CatalogSheet, "catalog_sheet")
	overlay(&loaded.BackupDir, "backup_dir")
	overlay(&loaded.LogLevel, "log_level")
	overlay(&loaded.LogFormat, "log_format")

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	return setupLogging(cfg.LogLevel, cfg.LogFormat)
}

// overlay replaces *dst with the viper value for key when a flag or
// environment variable sets it.
func overlay(dst *string, key string) {
	if !viper.IsSet(key) {
		return
	}
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

// setupLogging installs the default slog logger. Logs go to stderr so that
// command output on stdout stays clean.
func setupLogging(level, format string) error {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func fileManager() *utils.FileManager {
	return utils.NewFileManager(cfg.BackupDir, cfg.BackupRetention())
}

func ledgerService() *ledger.Service {
	return ledger.New(ledger.Options{
		Locate:      cfg.LocateOptions(),
		FileManager: fileManager(),
		Logger:      slog.Default(),
	})
}

func catalogStore() *catalog.Store {
	return catalog.NewStore(cfg.CatalogSheet, fileManager(), slog.Default())
}

// headerRow returns the --header-row flag value, falling back to the
// configured header_row.
func headerRow(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.HeaderRow
}
