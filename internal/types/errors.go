package types

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound indicates the workbook file does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// ErrDocumentExists indicates a workbook would be overwritten by a create.
var ErrDocumentExists = errors.New("document already exists")

// ErrSheetNotFound indicates the named sheet is not in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrHeaderNotFound indicates no scanned row holds the required header fields.
var ErrHeaderNotFound = errors.New("header row not found")

// ErrMissingKeyColumn indicates the header was found without a field the
// append logic depends on.
var ErrMissingKeyColumn = errors.New("missing key column")

// ErrWriteFailure indicates the workbook could not be persisted.
var ErrWriteFailure = errors.New("write failure")

// ErrMalformedCatalog indicates the catalog sheet lacks its name/price columns.
// It never reaches callers of the catalog store; loads fall back to defaults.
var ErrMalformedCatalog = errors.New("malformed catalog")

// LedgerError carries the operation and sheet an error occurred in.
type LedgerError struct {
	Op    string // "locate", "append", "write", "read", "save", "catalog"
	Sheet string
	Err   error
}

func (e *LedgerError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s sheet %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError.
func NewLedgerError(op, sheet string, err error) *LedgerError {
	return &LedgerError{
		Op:    op,
		Sheet: sheet,
		Err:   err,
	}
}
