// =============================================================================
// Sales Ledger - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file, applies
// defaults and validates the result. A missing configuration file is not an
// error: the defaults describe the standard shop workbook.
//
// EXAMPLE (config.yaml):
//
//   workbook: "mimamuni sales datta+.xlsx"
//   ledger_sheet: Ventas
//   catalog_sheet: Catalogo
//   header_scan_rows: 300
//   header_scan_cols: 50
//   header_row: 0              # 0 = detect
//   column_overrides:
//     ItemName: C              # pin a field to a column letter
//   backup_dir: ./backups
//   backup_retention_days: 30
//   log_level: info
//   log_format: text
//
// Flags and VENTAS_* environment variables are layered on top by the CLI.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// WORKBOOK SETTINGS
	// =========================================================================

	// Workbook is the path to the ledger workbook.
	// Default: "ventas.xlsx"
	Workbook string `yaml:"workbook"`

	// LedgerSheet is the sheet sales are appended to.
	// Default: "Ventas"
	LedgerSheet string `yaml:"ledger_sheet"`

	// CatalogSheet is the sheet holding the item catalog.
	// Default: "Catalogo"
	CatalogSheet string `yaml:"catalog_sheet"`

	// =========================================================================
	// HEADER LOCATION SETTINGS
	// =========================================================================

	// HeaderScanRows bounds how many rows are searched for the header.
	// Default: 300
	HeaderScanRows int `yaml:"header_scan_rows"`

	// HeaderScanCols bounds how many cells of each row are read.
	// Default: 50
	HeaderScanCols int `yaml:"header_scan_cols"`

	// HeaderRow forces the 1-based header row for sheets where detection
	// picks the wrong one. 0 means detect.
	HeaderRow int `yaml:"header_row"`

	// ColumnOverrides pins fields to column letters regardless of header text.
	// Keys are canonical field names (Date, Quantity, ItemName,
	// PaymentMethod, UnitPrice, TotalSale, Comment).
	ColumnOverrides map[string]string `yaml:"column_overrides"`

	// =========================================================================
	// BACKUP SETTINGS
	// =========================================================================

	// BackupDir receives a copy of the workbook before each save.
	// Empty disables backups.
	BackupDir string `yaml:"backup_dir"`

	// BackupRetentionDays is how long backups are kept. 0 keeps them all.
	BackupRetentionDays int `yaml:"backup_retention_days"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The configuration file. A missing file yields the defaults.
//
// RETURNS:
//   - The configuration with defaults applied.
//   - An error if the file cannot be read or parsed, or fails validation.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Workbook == "" {
		cfg.Workbook = "ventas.xlsx"
	}
	if cfg.LedgerSheet == "" {
		cfg.LedgerSheet = "Ventas"
	}
	if cfg.CatalogSheet == "" {
		cfg.CatalogSheet = "Catalogo"
	}
	if cfg.HeaderScanRows == 0 {
		cfg.HeaderScanRows = 300
	}
	if cfg.HeaderScanCols == 0 {
		cfg.HeaderScanCols = 50
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// Validate checks the configuration for values the ledger cannot work with.
func (c *Config) Validate() error {
	if c.LedgerSheet == c.CatalogSheet {
		return fmt.Errorf("ledger_sheet and catalog_sheet must differ (both %q)", c.LedgerSheet)
	}
	if c.HeaderScanRows < 1 || c.HeaderScanCols < 1 {
		return fmt.Errorf("header scan limits must be positive")
	}
	if c.HeaderRow < 0 {
		return fmt.Errorf("header_row cannot be negative")
	}
	if c.BackupRetentionDays < 0 {
		return fmt.Errorf("backup_retention_days cannot be negative")
	}
	if _, err := c.Overrides(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Overrides converts ColumnOverrides into field -> 1-based column numbers.
func (c *Config) Overrides() (map[types.CanonicalField]int, error) {
	if len(c.ColumnOverrides) == 0 {
		return nil, nil
	}

	out := make(map[types.CanonicalField]int, len(c.ColumnOverrides))
	for name, letter := range c.ColumnOverrides {
		field, err := types.ParseCanonicalField(name)
		if err != nil {
			return nil, fmt.Errorf("column_overrides: %w", err)
		}
		col, err := excelize.ColumnNameToNumber(strings.TrimSpace(letter))
		if err != nil {
			return nil, fmt.Errorf("column_overrides %s: %w", name, err)
		}
		out[field] = col
	}
	return out, nil
}

// LocateOptions returns the header search settings. The forced header row is
// not included; it is passed per operation.
func (c *Config) LocateOptions() xlsxparser.LocateOptions {
	overrides, _ := c.Overrides()
	return xlsxparser.LocateOptions{
		ScanRows:        c.HeaderScanRows,
		ScanCols:        c.HeaderScanCols,
		ColumnOverrides: overrides,
	}
}

// BackupRetention returns the backup retention window.
func (c *Config) BackupRetention() time.Duration {
	return time.Duration(c.BackupRetentionDays) * 24 * time.Hour
}
