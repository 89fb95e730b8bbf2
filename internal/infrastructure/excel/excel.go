// Package excel lectura y escritura de planillas .xlsx para importar y exportar el inventario.
package excel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/pkg/textnorm"
)

// ContentType tipo MIME de las planillas.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNoHeader la primera hoja no tiene la columna de nombre de producto.
var ErrNoHeader = errors.New("excel: falta la columna 'Ürün Adı' en el encabezado")

type column int

const (
	colName column = iota
	colBrand
	colModel
	colCategory
	colLocation
	colStatus
	colSerial
	colDescription
	colBarcode
	colQuantity
)

// headerAliases encabezados aceptados por columna; se comparan con textnorm.Key.
var headerAliases = map[column][]string{
	colName:        {"Ürün Adı", "Ürün", "Ad", "Name"},
	colBrand:       {"Marka", "Brand"},
	colModel:       {"Model"},
	colCategory:    {"Kategori", "Category"},
	colLocation:    {"Lokasyon", "Konum", "Location"},
	colStatus:      {"Durum", "Status"},
	colSerial:      {"Seri No", "Seri Numarası", "Serial Number"},
	colDescription: {"Açıklama", "Description"},
	colBarcode:     {"Barkod", "Barcode"},
	colQuantity:    {"Miktar", "Adet", "Quantity"},
}

var headerIndex = func() map[string]column {
	idx := map[string]column{}
	for col, names := range headerAliases {
		for _, n := range names {
			idx[textnorm.Key(n)] = col
		}
	}
	return idx
}()

// ReadProducts lee la primera hoja: fila 1 encabezado, el resto productos. Filas vacías se saltan.
func ReadProducts(r io.Reader) ([]inventory.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	positions := map[column]int{}
	for i, h := range rows[0] {
		if col, ok := headerIndex[textnorm.Key(h)]; ok {
			if _, dup := positions[col]; !dup {
				positions[col] = i
			}
		}
	}
	if _, ok := positions[colName]; !ok {
		return nil, ErrNoHeader
	}

	out := make([]inventory.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		get := func(c column) string {
			pos, ok := positions[c]
			if !ok || pos >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[pos])
		}
		out = append(out, inventory.ImportRow{
			Row:          i + 2,
			Name:         get(colName),
			Brand:        get(colBrand),
			Model:        get(colModel),
			Category:     get(colCategory),
			Location:     get(colLocation),
			Status:       get(colStatus),
			SerialNumber: get(colSerial),
			Description:  get(colDescription),
			Barcode:      get(colBarcode),
			Quantity:     parseQuantity(get(colQuantity)),
		})
	}
	return out, nil
}

// parseQuantity vacío = 0 (una unidad); un valor no entero devuelve -1 y la fila se rechaza.
func parseQuantity(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	fv, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || fv != math.Trunc(fv) {
		return -1
	}
	return int(fv)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteTable escribe la tabla como un libro de una hoja.
func WriteTable(w io.Writer, t inventory.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("nombrar hoja: %w", err)
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
