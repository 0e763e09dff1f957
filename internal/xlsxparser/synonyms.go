package xlsxparser

import (
	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/pkg/utils"
)

// =============================================================================
// HEADER SYNONYM TABLE
// =============================================================================

// headerSynonyms maps normalized header spellings to canonical fields.
// Keys must already be in Normalize form (no accents, lowercase, single
// spaces); the table is checked against that in tests.
var headerSynonyms = map[string]types.CanonicalField{
	// Date
	"fecha":          types.FieldDate,
	"fecha de venta": types.FieldDate,
	"dia":            types.FieldDate,

	// Quantity
	"cantidad": types.FieldQuantity,
	"cant":     types.FieldQuantity,
	"cant.":    types.FieldQuantity,
	"unidades": types.FieldQuantity,

	// Item name
	"nombre del articulo": types.FieldItemName,
	"nombre de articulo":  types.FieldItemName,
	"articulo":            types.FieldItemName,
	"producto":            types.FieldItemName,
	"nombre del producto": types.FieldItemName,
	"descripcion":         types.FieldItemName,
	"nombre":              types.FieldItemName,

	// Payment method
	"metodo de pago": types.FieldPaymentMethod,
	"medio de pago":  types.FieldPaymentMethod,
	"forma de pago":  types.FieldPaymentMethod,
	"pago":           types.FieldPaymentMethod,

	// Unit price
	"precio unitario": types.FieldUnitPrice,
	"precio":          types.FieldUnitPrice,
	"precio unit.":    types.FieldUnitPrice,
	"p. unitario":     types.FieldUnitPrice,

	// Total
	"venta total": types.FieldTotalSale,
	"total":       types.FieldTotalSale,
	"importe":     types.FieldTotalSale,
	"total venta": types.FieldTotalSale,

	// Comment
	"comentarios":   types.FieldComment,
	"comentario":    types.FieldComment,
	"notas":         types.FieldComment,
	"observaciones": types.FieldComment,
}

// anchorSpellings are the literal ledger labels of the required fields. A
// detected header row must carry at least one of them, so a dashboard row made
// only of loose synonyms ("Día", "Unidades", "Nombre") is not taken for the
// header.
var anchorSpellings = map[string]bool{
	"fecha":               true,
	"cantidad":            true,
	"nombre del articulo": true,
}

// isAnchor reports whether normalized header text is a literal ledger label.
func isAnchor(normalized string) bool {
	return anchorSpellings[normalized]
}

// Resolve maps normalized header text to its canonical field.
// Unrecognized text is not an error; the column is simply not managed.
func Resolve(normalized string) (types.CanonicalField, bool) {
	field, ok := headerSynonyms[normalized]
	return field, ok
}

// ResolveHeader normalizes raw header text and resolves it.
func ResolveHeader(raw string) (types.CanonicalField, bool) {
	return Resolve(utils.Normalize(raw))
}
