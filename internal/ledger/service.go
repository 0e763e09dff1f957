// =============================================================================
// Sales Ledger - Ledger Service
// =============================================================================
//
// This module is the boundary the sales form calls into. It orchestrates one
// operation against one workbook, from opening the file to saving it.
//
// APPEND PIPELINE:
//   1. Open the workbook (fails if it does not exist)
//   2. Locate the header row and field -> column map
//   3. Check the key columns are present
//   4. Find the first free row (Date cell empty)
//   5. Write the record in memory
//   6. Save the whole workbook once
//
// The service holds configuration only. Nothing about a workbook survives
// between calls; the sheet may be edited by hand at any time.
//
// =============================================================================

package ledger

import (
	"fmt"
	"log/slog"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/workbook"
	"github.com/ginjaninja78/sales-ledger/internal/xlsxparser"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// SERVICE STRUCTURE
// =============================================================================

// Options configures a Service.
type Options struct {
	// Locate holds scan bounds and column overrides. Its ForcedRow is
	// ignored; the forced header row is passed per call.
	Locate xlsxparser.LocateOptions

	// FileManager handles atomic saves and backups. Nil saves in place
	// without backups.
	FileManager *utils.FileManager

	// Logger receives operation logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// Service appends sales to, and reads them back from, ledger workbooks.
type Service struct {
	locate xlsxparser.LocateOptions
	fm     *utils.FileManager
	logger *slog.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		locate: opts.Locate,
		fm:     opts.FileManager,
		logger: logger,
	}
}

// =============================================================================
// APPEND
// =============================================================================

// AppendSale writes record as a new row of the ledger table in sheet.
//
// PARAMETERS:
//   - path: The workbook file.
//   - sheet: The ledger sheet name.
//   - record: The sale. Absent fields leave their cells empty.
//   - forcedHeaderRow: A 1-based header row to use instead of detection, or 0.
//
// RETURNS:
//   - Where the record landed.
//   - types.ErrDocumentNotFound, types.ErrSheetNotFound,
//     types.ErrHeaderNotFound or types.ErrMissingKeyColumn for structural
//     problems, types.ErrWriteFailure if saving fails. Nothing is written to
//     disk on any error.
func (s *Service) AppendSale(path, sheet string, record types.SaleRecord, forcedHeaderRow int) (types.WriteReport, error) {
	logger := s.logger.With("op", uuid.New().String()[:8], "workbook", path, "sheet", sheet)

	// =========================================================================
	// STEP 1: OPEN
	// =========================================================================

	doc, err := workbook.Open(path, s.fm, logger)
	if err != nil {
		return types.WriteReport{}, err
	}
	defer doc.Close()

	// =========================================================================
	// STEP 2: LOCATE HEADER
	// =========================================================================

	loc, err := s.locateHeader(doc, sheet, forcedHeaderRow, logger)
	if err != nil {
		return types.WriteReport{}, err
	}

	// =========================================================================
	// STEP 3: CHECK KEY COLUMNS
	// =========================================================================
	// A forced header row is taken as-is, so it may lack required fields.

	if missing := loc.Columns.Missing(types.RequiredFields...); len(missing) > 0 {
		return types.WriteReport{}, types.NewLedgerError("append", sheet,
			fmt.Errorf("%w: %v", types.ErrMissingKeyColumn, missing))
	}

	// =========================================================================
	// STEP 4: FIND APPEND ROW
	// =========================================================================

	row, err := FindAppendRow(doc.File, sheet, loc)
	if err != nil {
		return types.WriteReport{}, err
	}
	logger.Debug("Append row found", "row", row)

	// =========================================================================
	// STEP 5: WRITE RECORD
	// =========================================================================

	report, err := WriteRecord(doc.File, sheet, loc, row, record)
	if err != nil {
		return types.WriteReport{}, err
	}

	// =========================================================================
	// STEP 6: SAVE
	// =========================================================================

	if err := doc.Save(); err != nil {
		return types.WriteReport{}, types.NewLedgerError("save", sheet, err)
	}

	logger.Info("Sale recorded",
		"header_row", report.HeaderRow,
		"row", report.WrittenRow,
		"fields", len(report.FieldsWritten))

	return report, nil
}

// =============================================================================
// READ
// =============================================================================

// ReadTable returns the sales recorded in sheet.
//
// Reads feed displays only, so a missing sheet, a missing header or an
// unreadable row range yields an empty result. A missing workbook is still
// reported as types.ErrDocumentNotFound.
func (s *Service) ReadTable(path, sheet string, forcedHeaderRow int) ([]types.SaleRecord, error) {
	logger := s.logger.With("workbook", path, "sheet", sheet)

	doc, err := workbook.Open(path, s.fm, logger)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	opts := s.locate
	opts.ForcedRow = forcedHeaderRow

	records, err := xlsxparser.ReadTable(doc.File, sheet, opts)
	if err != nil {
		logger.Warn("Failed to read ledger table", "error", err)
		return nil, nil
	}

	logger.Debug("Ledger table read", "records", len(records))
	return records, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// locateHeader runs the header locator with the per-call forced row.
func (s *Service) locateHeader(doc *workbook.Document, sheet string, forcedHeaderRow int, logger *slog.Logger) (*xlsxparser.HeaderLocation, error) {
	opts := s.locate
	opts.ForcedRow = forcedHeaderRow

	loc, err := xlsxparser.Locate(doc.File, sheet, opts)
	if err != nil {
		return nil, err
	}

	if forcedHeaderRow > 0 && !loc.Forced {
		logger.Warn("Forced header row is outside the sheet, detected instead",
			"forced_row", forcedHeaderRow, "header_row", loc.Row)
	}
	logger.Debug("Header located", "row", loc.Row, "columns", loc.Columns)

	return loc, nil
}
