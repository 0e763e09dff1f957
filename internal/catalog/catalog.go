// =============================================================================
// Sales Ledger - Catalog Store
// =============================================================================
//
// The catalog is the name -> price list the sales form picks items from. It
// lives in a dedicated sheet of the ledger workbook as a two-column table:
//
//   | A         | B      |
//   |-----------|--------|
//   | Artículo  | Precio |   <- header, row 1
//   | Bolsa     | 120    |
//   | Camiseta  | 150    |
//
// LOAD:  a missing or malformed catalog sheet falls back to the seed catalog,
//        which is written back on a best-effort basis.
// SAVE:  the sheet is replaced wholesale with the cleaned entries; entries not
//        in the new list are gone.
//
// =============================================================================

package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/workbook"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultSheet is the catalog sheet name used when none is configured.
	DefaultSheet = "Catalogo"

	// NameHeader and PriceHeader label the catalog columns. They are contract
	// strings shared with existing workbooks.
	NameHeader  = "Artículo"
	PriceHeader = "Precio"
)

// DefaultEntries is the seed catalog used when a workbook has none.
var DefaultEntries = []types.CatalogEntry{
	{Name: "Camiseta", Price: 150},
	{Name: "Pantalón", Price: 350},
	{Name: "Vestido", Price: 450},
	{Name: "Falda", Price: 280},
	{Name: "Bolsa", Price: 120},
	{Name: "Calcetines", Price: 50},
}

// =============================================================================
// STORE
// =============================================================================

// Store loads and replaces the catalog sheet of a workbook.
type Store struct {
	sheet  string
	fm     *utils.FileManager
	logger *slog.Logger
}

// NewStore creates a Store for the named sheet. An empty sheet name uses
// DefaultSheet.
func NewStore(sheet string, fm *utils.FileManager, logger *slog.Logger) *Store {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{sheet: sheet, fm: fm, logger: logger}
}

// Load returns the catalog of the workbook at path.
//
// RETURNS:
//   - The entries in sheet order. When the workbook does not exist, or its
//     catalog sheet is missing or lacks the name/price columns, the seed
//     catalog is returned instead and (for an existing workbook) written
//     back. A failed write-back is logged and otherwise ignored.
//   - An error only when an existing workbook cannot be opened.
func (s *Store) Load(path string) ([]types.CatalogEntry, error) {
	logger := s.logger.With("workbook", path, "sheet", s.sheet)

	if !utils.FileExists(path) {
		logger.Debug("Workbook not found, using seed catalog")
		return defaults(), nil
	}

	doc, err := workbook.Open(path, s.fm, logger)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	entries, err := readEntries(doc.File, s.sheet)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, types.ErrMalformedCatalog) && !errors.Is(err, types.ErrSheetNotFound) {
		return nil, types.NewLedgerError("catalog", s.sheet, err)
	}

	logger.Info("Catalog missing or malformed, seeding defaults", "reason", err)

	seed := defaults()
	if err := writeEntries(doc, s.sheet, seed); err != nil {
		logger.Warn("Failed to seed catalog", "error", err)
		return seed, nil
	}
	if err := doc.Save(); err != nil {
		logger.Warn("Failed to save seeded catalog", "error", err)
	}

	return seed, nil
}

// Save replaces the catalog of the workbook at path with entries.
//
// Entries are cleaned first (see Clean). When the workbook does not exist yet
// a new one holding only the catalog is created.
func (s *Store) Save(path string, entries []types.CatalogEntry) error {
	logger := s.logger.With("workbook", path, "sheet", s.sheet)
	cleaned := Clean(entries)

	doc, err := workbook.Open(path, s.fm, logger)
	if errors.Is(err, types.ErrDocumentNotFound) {
		logger.Info("Creating workbook for catalog")
		doc = workbook.New(path, s.fm, logger)
	} else if err != nil {
		return err
	}
	defer doc.Close()

	if err := writeEntries(doc, s.sheet, cleaned); err != nil {
		return types.NewLedgerError("catalog", s.sheet, err)
	}
	if err := doc.Save(); err != nil {
		return types.NewLedgerError("save", s.sheet, err)
	}

	logger.Info("Catalog saved", "entries", len(cleaned))
	return nil
}

// Write replaces the catalog sheet of an open document with the cleaned
// entries. Nothing is saved; the caller persists doc.
func (s *Store) Write(doc *workbook.Document, entries []types.CatalogEntry) error {
	if err := writeEntries(doc, s.sheet, Clean(entries)); err != nil {
		return types.NewLedgerError("catalog", s.sheet, err)
	}
	return nil
}

// =============================================================================
// CLEANING AND LOOKUP
// =============================================================================

// Clean prepares entries for saving.
//
// Names are trimmed and entries with empty names dropped. Prices that are
// negative or not finite become 0. Entries whose names match after
// normalization (case, accents, spacing) collapse into the last one, which
// keeps its own position.
func Clean(entries []types.CatalogEntry) []types.CatalogEntry {
	last := make(map[string]int, len(entries))
	for i, e := range entries {
		if key := utils.Normalize(e.Name); key != "" {
			last[key] = i
		}
	}

	cleaned := make([]types.CatalogEntry, 0, len(last))
	for i, e := range entries {
		key := utils.Normalize(e.Name)
		if key == "" || last[key] != i {
			continue
		}
		cleaned = append(cleaned, types.CatalogEntry{
			Name:  strings.TrimSpace(e.Name),
			Price: sanitizePrice(e.Price),
		})
	}
	return cleaned
}

// Lookup finds an entry by name, ignoring case, accents and spacing.
func Lookup(entries []types.CatalogEntry, name string) (types.CatalogEntry, bool) {
	key := utils.Normalize(name)
	if key == "" {
		return types.CatalogEntry{}, false
	}
	for _, e := range entries {
		if utils.Normalize(e.Name) == key {
			return e, true
		}
	}
	return types.CatalogEntry{}, false
}

// ParsePrice converts typed text to a price. Anything unparseable or negative
// is 0. A currency sign is ignored.
//
// SEPARATORS:
//   - Both "." and "," present: the last one is the decimal separator
//     ("1.250,50" and "1,250.50" are both 1250.5).
//   - One kind, repeated: thousands grouping ("1.250.000" is 1250000).
//   - One kind, once: decimal separator. "1.250" and "1,250" are 1.25; raw
//     cell values always use a decimal point, so a lone dot cannot be read
//     as grouping.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(normalizeSeparators(strings.ReplaceAll(s, " ", "")))
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// normalizeSeparators rewrites s to use "." as the only decimal separator and
// no grouping, following the rules of ParsePrice.
func normalizeSeparators(s string) string {
	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

func sanitizePrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func defaults() []types.CatalogEntry {
	return append([]types.CatalogEntry(nil), DefaultEntries...)
}

// =============================================================================
// SHEET ACCESS
// =============================================================================

// readEntries reads the catalog table from row 1 down.
// The name and price columns are found by their header text, so a hand-made
// catalog with the columns swapped still loads.
func readEntries(f *excelize.File, sheet string) ([]types.CatalogEntry, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, types.ErrSheetNotFound
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", types.ErrMalformedCatalog)
	}

	nameCol, priceCol := 0, 0
	for i, cell := range rows[0] {
		field, ok := xlsxparser.ResolveHeader(cell)
		switch {
		case !ok:
		case field == types.FieldItemName && nameCol == 0:
			nameCol = i + 1
		case field == types.FieldUnitPrice && priceCol == 0:
			priceCol = i + 1
		}
	}
	if nameCol == 0 || priceCol == 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q", types.ErrMalformedCatalog, NameHeader, PriceHeader)
	}

	entries := make([]types.CatalogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(xlsxparser.CellAt(row, nameCol))
		if name == "" {
			continue
		}
		entries = append(entries, types.CatalogEntry{
			Name:  name,
			Price: ParsePrice(xlsxparser.CellAt(row, priceCol)),
		})
	}

	return entries, nil
}

// writeEntries replaces the whole catalog sheet content in memory.
func writeEntries(doc *workbook.Document, sheet string, entries []types.CatalogEntry) error {
	if err := doc.EnsureSheet(sheet); err != nil {
		return err
	}

	rows, err := doc.File.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read catalog rows: %w", err)
	}
	for r := len(rows); r >= 1; r-- {
		if err := doc.File.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("failed to clear catalog row %d: %w", r, err)
		}
	}

	header := []interface{}{NameHeader, PriceHeader}
	if err := doc.File.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	if err := doc.StyleHeader(sheet, 1, len(header)); err != nil {
		return err
	}

	for i, e := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{e.Name, e.Price}
		if err := doc.File.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write catalog entry %q: %w", e.Name, err)
		}
	}

	return nil
}
