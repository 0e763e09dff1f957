package xlsxparser

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateStandardHeader(t *testing.T) {
	f := newSheet(t, standardHeader)

	loc, err := Locate(f, testSheet, DefaultLocateOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, loc.Row)
	assert.False(t, loc.Forced)
	assert.Equal(t, types.HeaderMap{
		types.FieldDate:          1,
		types.FieldQuantity:      2,
		types.FieldItemName:      3,
		types.FieldPaymentMethod: 4,
		types.FieldUnitPrice:     5,
		types.FieldTotalSale:     6,
		types.FieldComment:       7,
	}, loc.Columns)
}

func TestLocateBelowDashboard(t *testing.T) {
	f := newSheet(t,
		[]interface{}{"Resumen enero", nil, "Total: 12.400"},
		nil,
		// Partial header-like row: only Date resolves.
		[]interface{}{"Fecha", "Total"},
		[]interface{}{" FECHA ", "cantidad", "NOMBRE DEL ARTICULO", "Metodo de pago", "precio unitario"},
	)

	loc, err := Locate(f, testSheet, DefaultLocateOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, loc.Row)
	assert.Equal(t, 1, loc.Columns[types.FieldDate])
	assert.Equal(t, 3, loc.Columns[types.FieldItemName])
	assert.Equal(t, 5, loc.Columns[types.FieldUnitPrice])
	assert.NotContains(t, loc.Columns, types.FieldTotalSale)
}

func TestLocateReorderedColumns(t *testing.T) {
	f := newSheet(t,
		[]interface{}{"Notas", "Artículo", "", "Cant.", "Fecha"},
	)

	loc, err := Locate(f, testSheet, DefaultLocateOptions())
	require.NoError(t, err)

	assert.Equal(t, types.HeaderMap{
		types.FieldComment:  1,
		types.FieldItemName: 2,
		types.FieldQuantity: 4,
		types.FieldDate:     5,
	}, loc.Columns)
}

func TestLocateSkipsSynonymOnlyRow(t *testing.T) {
	f := newSheet(t,
		// Dashboard row that resolves every required field through synonyms.
		[]interface{}{"Día", "Unidades", "Nombre"},
		[]interface{}{"Lunes", 12, "Bolsa"},
		nil,
		standardHeader,
	)

	loc, err := Locate(f, testSheet, DefaultLocateOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, loc.Row)
	assert.Equal(t, 3, loc.Columns[types.FieldItemName])
}

func TestLocateSynonymOnlyRowIsNotAHeader(t *testing.T) {
	f := newSheet(t, []interface{}{"Día", "Unidades", "Nombre"})

	_, err := Locate(f, testSheet, DefaultLocateOptions())
	assert.True(t, errors.Is(err, types.ErrHeaderNotFound))
}

func TestLocateLeftmostDuplicateWins(t *testing.T) {
	f := newSheet(t,
		[]interface{}{"Fecha", "Cantidad", "Artículo", "Fecha de venta"},
	)

	loc, err := Locate(f, testSheet, DefaultLocateOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, loc.Columns[types.FieldDate])
}

func TestLocateHeaderNotFound(t *testing.T) {
	f := newSheet(t,
		[]interface{}{"Fecha", "Cantidad"},
		[]interface{}{"Hola", "Mundo"},
	)

	_, err := Locate(f, testSheet, DefaultLocateOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrHeaderNotFound))

	var lerr *types.LedgerError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "locate", lerr.Op)
	assert.Equal(t, testSheet, lerr.Sheet)
}

func TestLocateRespectsScanLimits(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		rows := make([][]interface{}, 10)
		rows[9] = standardHeader
		f := newSheet(t, rows...)

		_, err := Locate(f, testSheet, LocateOptions{ScanRows: 5, ScanCols: 50})
		assert.True(t, errors.Is(err, types.ErrHeaderNotFound))

		loc, err := Locate(f, testSheet, LocateOptions{ScanRows: 10, ScanCols: 50})
		require.NoError(t, err)
		assert.Equal(t, 10, loc.Row)
	})

	t.Run("columns", func(t *testing.T) {
		f := newSheet(t, []interface{}{"", "", "", "Fecha", "Cantidad", "Artículo"})

		_, err := Locate(f, testSheet, LocateOptions{ScanRows: 10, ScanCols: 5})
		assert.True(t, errors.Is(err, types.ErrHeaderNotFound))

		loc, err := Locate(f, testSheet, LocateOptions{ScanRows: 10, ScanCols: 6})
		require.NoError(t, err)
		assert.Equal(t, 6, loc.Columns[types.FieldItemName])
	})
}

func TestLocateForcedRow(t *testing.T) {
	f := newSheet(t,
		standardHeader,
		[]interface{}{"x"},
		[]interface{}{"Fecha", "Artículo", "Cantidad"},
	)

	opts := DefaultLocateOptions()
	opts.ForcedRow = 3

	loc, err := Locate(f, testSheet, opts)
	require.NoError(t, err)
	assert.True(t, loc.Forced)
	assert.Equal(t, 3, loc.Row)
	assert.Equal(t, 2, loc.Columns[types.FieldItemName])
}

func TestLocateForcedRowOutOfRangeFallsBack(t *testing.T) {
	f := newSheet(t, nil, standardHeader)

	opts := DefaultLocateOptions()
	opts.ForcedRow = 50

	loc, err := Locate(f, testSheet, opts)
	require.NoError(t, err)
	assert.False(t, loc.Forced)
	assert.Equal(t, 2, loc.Row)
}

func TestLocateColumnOverrides(t *testing.T) {
	// The item column has an unrecognized label.
	f := newSheet(t, []interface{}{"Fecha", "Cantidad", "Cosa", "Precio"})

	_, err := Locate(f, testSheet, DefaultLocateOptions())
	require.True(t, errors.Is(err, types.ErrHeaderNotFound))

	opts := DefaultLocateOptions()
	opts.ColumnOverrides = map[types.CanonicalField]int{
		types.FieldItemName:  3,
		types.FieldUnitPrice: 7,
	}

	loc, err := Locate(f, testSheet, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, loc.Row)
	assert.Equal(t, 3, loc.Columns[types.FieldItemName])
	assert.Equal(t, 7, loc.Columns[types.FieldUnitPrice], "override wins over the discovered column")
}

func TestLocateMissingSheet(t *testing.T) {
	f := newSheet(t, standardHeader)

	_, err := Locate(f, "Otra", DefaultLocateOptions())
	assert.True(t, errors.Is(err, types.ErrSheetNotFound))
}

func TestScanRowsStopsEarly(t *testing.T) {
	f := newSheet(t,
		[]interface{}{"a"},
		[]interface{}{"b"},
		[]interface{}{"c"},
	)

	var seen []int
	err := ScanRows(f, testSheet, 2, 0, 0, func(rowNum int, cells []string) bool {
		seen = append(seen, rowNum)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, seen)
}

func TestCellAt(t *testing.T) {
	cells := []string{"a", "b"}
	assert.Equal(t, "a", CellAt(cells, 1))
	assert.Equal(t, "b", CellAt(cells, 2))
	assert.Equal(t, "", CellAt(cells, 3))
	assert.Equal(t, "", CellAt(cells, 0))
	assert.Equal(t, "", CellAt(nil, 1))
}
