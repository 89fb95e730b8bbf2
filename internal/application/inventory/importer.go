package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// ImportRow fila leída de una planilla de importación (valores tal como vienen en el archivo).
type ImportRow struct {
	Row          int // número de fila en la hoja (1 = encabezado)
	Name         string
	Brand        string
	Model        string
	Category     string
	Location     string
	Status       string
	SerialNumber string
	Description  string
	Barcode      string
	Quantity     int // 0 = una unidad
}

// ImportError error de una fila concreta.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Rows     int           `json:"rows"`
	Created  int           `json:"created"`
	Errors   []ImportError `json:"errors"`
	Barcodes []string      `json:"barcodes"`
}

// ImportProducts crea productos fila por fila. Una fila con error no detiene la importación.
func (s *Service) ImportProducts(ctx context.Context, rows []ImportRow) ImportResult {
	result := ImportResult{Rows: len(rows), Errors: []ImportError{}, Barcodes: []string{}}
	for _, r := range rows {
		in, err := s.importInput(r)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: r.Row, Message: err.Error()})
			continue
		}
		created, err := s.CreateProducts(ctx, in)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: r.Row, Message: importMessage(err)})
			continue
		}
		result.Created += len(created)
		for _, p := range created {
			result.Barcodes = append(result.Barcodes, p.Barcode)
		}
	}
	s.log.Info().
		Int("rows", result.Rows).
		Int("created", result.Created).
		Int("errors", len(result.Errors)).
		Msg("importación de productos finalizada")
	return result
}

func (s *Service) importInput(r ImportRow) (CreateProductInput, error) {
	in := CreateProductInput{
		Name:         strings.TrimSpace(r.Name),
		Brand:        r.Brand,
		Model:        r.Model,
		SerialNumber: r.SerialNumber,
		Description:  r.Description,
		Barcode:      strings.TrimSpace(r.Barcode),
		Quantity:     r.Quantity,
	}
	if in.Name == "" {
		return in, errors.New("Ürün Adı vacío")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return in, errors.New("Miktar debe ser positivo")
	}
	if in.Quantity > MaxUnitsPerCreate {
		return in, fmt.Errorf("Miktar supera el máximo de %d", MaxUnitsPerCreate)
	}
	if in.Barcode != "" && in.Quantity > 1 {
		return in, errors.New("una fila con Barkod solo puede tener Miktar 1")
	}

	cat, ok := s.CategoryByName(r.Category)
	if !ok {
		return in, errors.New("categoría no encontrada: " + r.Category)
	}
	in.CategoryID = cat.ID

	if strings.TrimSpace(r.Location) != "" {
		loc, ok := s.LocationByName(r.Location)
		if !ok {
			return in, errors.New("ubicación no encontrada: " + r.Location)
		}
		in.LocationID = loc.ID
	}
	if strings.TrimSpace(r.Status) != "" {
		status, ok := entity.StatusFromLabel(strings.TrimSpace(r.Status))
		if !ok {
			return in, errors.New("estado desconocido: " + r.Status)
		}
		in.Status = status
	}
	return in, nil
}

func importMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return "código de barras duplicado"
	case errors.Is(err, domain.ErrBarcodeExhausted):
		return domain.ErrBarcodeExhausted.Error()
	default:
		return err.Error()
	}
}
