package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
)

// workbook arma un .xlsx en memoria con las filas indicadas en la primera hoja.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadProducts_EncabezadosSinDistinguirMayusculasNiAcentos(t *testing.T) {
	buf := workbook(t, [][]any{
		{"URUN ADI", "marka", "Kategori", "lokasyon", "Durum", "Miktar", "Barkod"},
		{"Projeksiyon Epson", "Epson", "Projeksiyon", "Ana Depo", "Depoda", 3, ""},
		{"", "", "", "", "", "", ""},
		{"Hoparlör", "JBL", "Ses", "", "", "", "PS12345678900001"},
		{"Perde", "", "Projeksiyon", "", "", "iki", ""},
	})

	rows, err := ReadProducts(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3, "la fila vacía se salta")

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "Projeksiyon Epson", rows[0].Name)
	assert.Equal(t, "Epson", rows[0].Brand)
	assert.Equal(t, "Ana Depo", rows[0].Location)
	assert.Equal(t, "Depoda", rows[0].Status)
	assert.Equal(t, 3, rows[0].Quantity)

	assert.Equal(t, 4, rows[1].Row, "conserva el número de fila de la hoja")
	assert.Equal(t, "PS12345678900001", rows[1].Barcode)
	assert.Equal(t, 0, rows[1].Quantity)

	assert.Equal(t, -1, rows[2].Quantity, "cantidad no numérica se marca inválida")
}

func TestReadProducts_SinColumnaNombre(t *testing.T) {
	buf := workbook(t, [][]any{{"Marka", "Model"}, {"Epson", "X"}})
	_, err := ReadProducts(buf)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadProducts_ArchivoInvalido(t *testing.T) {
	_, err := ReadProducts(bytes.NewBufferString("no es un xlsx"))
	assert.Error(t, err)
}

func TestWriteTable_IdaYVuelta(t *testing.T) {
	table := inventory.Table{
		Sheet:   "Urunler",
		Headers: inventory.ProductHeaders,
		Rows: [][]any{
			{"Projeksiyon Epson", "Epson", "EB-X51", "Projeksiyon", "Depoda", "Ana Depo", "SN-1", "PS12345678900001", 1, ""},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Urunler"}, f.GetSheetList())

	// La exportación de productos se puede volver a importar.
	rows, err := ReadProducts(bytes.NewReader(mustWrite(t, table)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Projeksiyon Epson", rows[0].Name)
	assert.Equal(t, "SN-1", rows[0].SerialNumber)
	assert.Equal(t, "PS12345678900001", rows[0].Barcode)
	assert.Equal(t, 1, rows[0].Quantity)
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 0, parseQuantity(""))
	assert.Equal(t, 4, parseQuantity("4"))
	assert.Equal(t, 2, parseQuantity("2.0"))
	assert.Equal(t, -1, parseQuantity("2,5"))
	assert.Equal(t, -1, parseQuantity("x"))
}

func mustWrite(t *testing.T, table inventory.Table) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))
	return buf.Bytes()
}
