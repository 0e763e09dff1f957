// =============================================================================
// Sales Ledger - Workbook Document
// =============================================================================
//
// A Document is one open workbook file. Every operation of the ledger follows
// the same lifecycle:
//
//   1. Open the file fresh from disk (no long-lived handles)
//   2. Mutate the sheets in memory
//   3. Save once, rewriting the whole file atomically
//   4. Close
//
// Nothing about the sheet layout is cached here; the header row and the
// append position are rediscovered on every call because the file may have
// been edited by hand in between.
//
// =============================================================================

package workbook

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet excelize creates in a new workbook.
const DefaultSheetName = "Sheet1"

// Document wraps an excelize workbook together with its storage location.
type Document struct {
	// Path is where the workbook is read from and written back to.
	Path string

	// File is the in-memory workbook.
	File *excelize.File

	fm     *utils.FileManager
	logger *slog.Logger
}

// =============================================================================
// OPENING AND CREATING
// =============================================================================

// Open loads an existing workbook.
//
// RETURNS:
//   - The document, ready for in-memory mutation.
//   - types.ErrDocumentNotFound if nothing exists at path.
func Open(path string, fm *utils.FileManager, logger *slog.Logger) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	return newDocument(path, f, fm, logger), nil
}

// New returns an unsaved, empty workbook bound to path.
// The first Save creates the file.
func New(path string, fm *utils.FileManager, logger *slog.Logger) *Document {
	return newDocument(path, excelize.NewFile(), fm, logger)
}

func newDocument(path string, f *excelize.File, fm *utils.FileManager, logger *slog.Logger) *Document {
	if fm == nil {
		fm = utils.NewFileManager("", 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{Path: path, File: f, fm: fm, logger: logger}
}

// NewLedger returns an unsaved workbook bound to path holding an empty ledger
// sheet with the standard header row. More sheets can be added before the
// first Save creates the file.
//
// RETURNS:
//   - types.ErrDocumentExists if a file is already at path; existing ledgers
//     are never replaced.
func NewLedger(path, ledgerSheet string, fm *utils.FileManager, logger *slog.Logger) (*Document, error) {
	if utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", types.ErrDocumentExists, path)
	}

	doc := New(path, fm, logger)

	if err := doc.File.SetSheetName(DefaultSheetName, ledgerSheet); err != nil {
		doc.Close()
		return nil, fmt.Errorf("failed to name ledger sheet: %w", err)
	}

	header := make([]interface{}, 0, len(types.AllFields))
	for _, field := range types.AllFields {
		header = append(header, types.LedgerHeaders[field])
	}
	if err := doc.File.SetSheetRow(ledgerSheet, "A1", &header); err != nil {
		doc.Close()
		return nil, fmt.Errorf("failed to write ledger header: %w", err)
	}

	if err := doc.StyleHeader(ledgerSheet, 1, len(header)); err != nil {
		doc.Close()
		return nil, err
	}

	return doc, nil
}

// Create writes a new workbook holding only the empty ledger sheet.
func Create(path, ledgerSheet string, fm *utils.FileManager, logger *slog.Logger) error {
	doc, err := NewLedger(path, ledgerSheet, fm, logger)
	if err != nil {
		return err
	}
	defer doc.Close()

	return doc.Save()
}

// =============================================================================
// SHEET HELPERS
// =============================================================================

// HasSheet reports whether the workbook contains the named sheet.
func (d *Document) HasSheet(name string) bool {
	idx, err := d.File.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// EnsureSheet creates the named sheet if it does not exist yet.
// A fresh workbook's placeholder sheet is renamed instead of kept alongside.
func (d *Document) EnsureSheet(name string) error {
	if d.HasSheet(name) {
		return nil
	}

	list := d.File.GetSheetList()
	if len(list) == 1 && list[0] == DefaultSheetName && !utils.FileExists(d.Path) {
		return d.File.SetSheetName(DefaultSheetName, name)
	}

	if _, err := d.File.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return nil
}

// StyleHeader makes the first cols cells of a header row bold.
func (d *Document) StyleHeader(sheet string, row, cols int) error {
	styleID, err := d.File.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return d.File.SetCellStyle(sheet, first, last, styleID)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save rewrites the whole workbook at Path.
//
// The previous version is backed up first when a backup directory is
// configured. Any failure is reported as types.ErrWriteFailure and the file
// on disk keeps its previous content.
func (d *Document) Save() error {
	backup, err := d.fm.BackupFile(d.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrWriteFailure, err)
	}
	if backup != "" {
		d.logger.Debug("Backed up workbook", "path", d.Path, "backup", backup)
	}

	err = d.fm.WriteAtomic(d.Path, func(w io.Writer) error {
		return d.File.Write(w)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrWriteFailure, err)
	}

	if removed, err := d.fm.PruneBackups(); err != nil {
		d.logger.Warn("Failed to prune old backups", "error", err)
	} else if removed > 0 {
		d.logger.Debug("Pruned old backups", "removed", removed)
	}

	return nil
}

// Close releases the in-memory workbook.
func (d *Document) Close() error {
	return d.File.Close()
}
