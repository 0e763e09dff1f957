// =============================================================================
// Sales Ledger - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser (header location, table reading)
//   - ledger     (append-row location, record writing)
//   - catalog    (catalog store)
//   - cmd        (the CLI standing in for the sales form)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// CanonicalField is one of the seven attributes of a sale, independent of the
// literal header text used in any given sheet.
type CanonicalField string

const (
	FieldDate          CanonicalField = "Date"
	FieldQuantity      CanonicalField = "Quantity"
	FieldItemName      CanonicalField = "ItemName"
	FieldPaymentMethod CanonicalField = "PaymentMethod"
	FieldUnitPrice     CanonicalField = "UnitPrice"
	FieldTotalSale     CanonicalField = "TotalSale"
	FieldComment       CanonicalField = "Comment"
)

// AllFields lists the canonical fields in ledger column order.
var AllFields = []CanonicalField{
	FieldDate,
	FieldQuantity,
	FieldItemName,
	FieldPaymentMethod,
	FieldUnitPrice,
	FieldTotalSale,
	FieldComment,
}

// RequiredFields must all be mapped for a sheet to count as a ledger table.
var RequiredFields = []CanonicalField{FieldDate, FieldQuantity, FieldItemName}

// LedgerHeaders are the header labels written when a new ledger is created.
// They are contract strings shared with existing workbooks and must not be
// translated.
var LedgerHeaders = map[CanonicalField]string{
	FieldDate:          "Fecha",
	FieldQuantity:      "Cantidad",
	FieldItemName:      "Nombre del Artículo",
	FieldPaymentMethod: "Método de Pago",
	FieldUnitPrice:     "Precio Unitario",
	FieldTotalSale:     "Venta Total",
	FieldComment:       "Comentarios",
}

// ParseCanonicalField matches a field name case-insensitively.
// It is used for configuration keys such as column overrides.
func ParseCanonicalField(s string) (CanonicalField, error) {
	for _, f := range AllFields {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// =============================================================================
// HEADER MAP
// =============================================================================

// HeaderMap maps a canonical field to its 1-based column number.
type HeaderMap map[CanonicalField]int

// Missing returns the fields from want that are not mapped.
func (m HeaderMap) Missing(want ...CanonicalField) []CanonicalField {
	var missing []CanonicalField
	for _, f := range want {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// =============================================================================
// SALE RECORD
// =============================================================================

// SaleRecord holds one value per canonical field. A missing key, a nil value
// or an empty string all mean "absent". It is used both as the input of an
// append and as the row shape returned by the table reader.
type SaleRecord map[CanonicalField]any

// Has reports whether the field carries a value.
func (r SaleRecord) Has(f CanonicalField) bool {
	v, ok := r[f]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// Date returns the field as a time when it holds one.
func (r SaleRecord) Date(f CanonicalField) (time.Time, bool) {
	t, ok := r[f].(time.Time)
	return t, ok
}

// Float returns the field as a float64 when it holds any Go numeric type.
func (r SaleRecord) Float(f CanonicalField) (float64, bool) {
	switch v := r[f].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// Text returns the field rendered as text, or "" when absent.
func (r SaleRecord) Text(f CanonicalField) string {
	if !r.Has(f) {
		return ""
	}
	if s, ok := r[f].(string); ok {
		return s
	}
	return fmt.Sprint(r[f])
}

// =============================================================================
// WRITE REPORT
// =============================================================================

// WriteReport describes where an append landed.
type WriteReport struct {
	// HeaderRow is the 1-based row holding the ledger header.
	HeaderRow int

	// WrittenRow is the 1-based row the record was written to.
	WrittenRow int

	// FieldsWritten lists the fields that received a value, in column order.
	FieldsWritten []CanonicalField
}

// =============================================================================
// CATALOG
// =============================================================================

// CatalogEntry is one item of the shop catalog.
type CatalogEntry struct {
	Name  string
	Price float64
}
