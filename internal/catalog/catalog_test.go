package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/sales-ledger/internal/types"
	"github.com/ginjaninja78/sales-ledger/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ventas.xlsx")
	require.NoError(t, workbook.Create(path, "Ventas", nil, nil))
	return path
}

func TestLoadMissingWorkbookReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	entries, err := NewStore("", nil, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEntries, entries)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loading must not create the workbook")
}

func TestLoadSeedsMissingCatalog(t *testing.T) {
	path := newWorkbook(t)
	store := NewStore("", nil, nil)

	entries, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEntries, entries)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(DefaultEntries)+1)
	assert.Equal(t, []string{NameHeader, PriceHeader}, rows[0])
	assert.Equal(t, "Camiseta", rows[1][0])
}

func TestLoadMalformedCatalogFallsBackToDefaults(t *testing.T) {
	path := newWorkbook(t)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet(DefaultSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(DefaultSheet, "A1", "Lo que sea"))
	require.NoError(t, f.SetCellValue(DefaultSheet, "A2", "Bolsa"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	entries, err := NewStore("", nil, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEntries, entries)
}

func TestSaveThenLoad(t *testing.T) {
	path := newWorkbook(t)
	store := NewStore("", nil, nil)

	in := []types.CatalogEntry{
		{Name: "Bolsa", Price: 120},
		{Name: "Camiseta", Price: 150.5},
	}
	require.NoError(t, store.Save(path, in))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// The ledger sheet is untouched.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	header, err := f.GetCellValue("Ventas", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Fecha", header)
}

func TestSaveIsIdempotent(t *testing.T) {
	path := newWorkbook(t)
	store := NewStore("", nil, nil)
	in := []types.CatalogEntry{{Name: "Bolsa", Price: 120}}

	require.NoError(t, store.Save(path, in))
	first, err := store.Load(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(path, first))
	second, err := store.Load(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSaveReplacesShorterList(t *testing.T) {
	path := newWorkbook(t)
	store := NewStore("", nil, nil)

	require.NoError(t, store.Save(path, DefaultEntries))
	require.NoError(t, store.Save(path, []types.CatalogEntry{{Name: "Falda", Price: 280}}))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []types.CatalogEntry{{Name: "Falda", Price: 280}}, got)
}

func TestSaveCreatesMissingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuevo.xlsx")
	store := NewStore("Precios", nil, nil)

	require.NoError(t, store.Save(path, []types.CatalogEntry{{Name: "Bolsa", Price: 120}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Precios"}, f.GetSheetList())
}

func TestLoadFindsSwappedColumns(t *testing.T) {
	path := newWorkbook(t)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet(DefaultSheet)
	require.NoError(t, err)
	rows := [][]interface{}{
		{"PRECIO", "articulo"},
		{"120,50", "Bolsa"},
		{"", ""},
		{"50", "Calcetines"},
		{"1.250,00", "Vestido de fiesta"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(DefaultSheet, cell, &row))
	}
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	got, err := NewStore("", nil, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []types.CatalogEntry{
		{Name: "Bolsa", Price: 120.5},
		{Name: "Calcetines", Price: 50},
		{Name: "Vestido de fiesta", Price: 1250},
	}, got)
}

func TestClean(t *testing.T) {
	got := Clean([]types.CatalogEntry{
		{Name: " Bolsa ", Price: 100},
		{Name: "Camiseta", Price: -5},
		{Name: "", Price: 10},
		{Name: "BOLSA", Price: 120},
		{Name: "Pantalon", Price: 300},
		{Name: "Pantalón", Price: 350},
	})

	assert.Equal(t, []types.CatalogEntry{
		{Name: "Camiseta", Price: 0},
		{Name: "BOLSA", Price: 120},
		{Name: "Pantalón", Price: 350},
	}, got)
}

func TestLookup(t *testing.T) {
	entries := []types.CatalogEntry{{Name: "Pantalón", Price: 350}}

	e, ok := Lookup(entries, "  pantalon ")
	require.True(t, ok)
	assert.Equal(t, 350.0, e.Price)

	_, ok = Lookup(entries, "Falda")
	assert.False(t, ok)

	_, ok = Lookup(entries, "")
	assert.False(t, ok)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"120", 120},
		{"120.5", 120.5},
		{"120,50", 120.5},
		{"$ 99", 99},
		{"1,250.75", 1250.75},
		{"1.250,50", 1250.5},
		{"$1.250,50", 1250.5},
		{"1.250.000", 1250000},
		{"1,250,000", 1250000},
		{"1 250,50", 1250.5},
		{"1.250", 1.25},
		{"1,250", 1.25},
		{"", 0},
		{"gratis", 0},
		{"-3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.in))
		})
	}
}
