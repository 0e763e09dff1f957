package xlsxparser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "Ventas"

var standardHeader = []interface{}{
	"Fecha", "Cantidad", "Nombre del Artículo", "Método de Pago",
	"Precio Unitario", "Venta Total", "Comentarios",
}

// newSheet builds an in-memory workbook whose only sheet holds rows starting
// at row 1. A nil row leaves that row empty.
func newSheet(t *testing.T, rows ...[]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	require.NoError(t, f.SetSheetName("Sheet1", testSheet))
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(testSheet, cell, &row))
	}
	return f
}
