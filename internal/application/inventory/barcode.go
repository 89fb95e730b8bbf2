package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/barcode"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// DefaultBarcodeAttempts intentos antes de rendirse al buscar un código libre.
const DefaultBarcodeAttempts = 5

// BarcodeLookup consulta si un código ya está asignado. Devuelve (nil, nil) si está libre.
type BarcodeLookup interface {
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
}

// BarcodeAllocator obtiene códigos libres comprobando cada candidato contra el almacén.
// La comprobación y el insert posterior no son atómicos; el índice único de products.barcode
// convierte la carrera en ErrDuplicate.
type BarcodeAllocator struct {
	gen         *barcode.Generator
	maxAttempts int
	onCollision func()
}

// NewBarcodeAllocator construye el asignador (DefaultBarcodeAttempts si maxAttempts <= 0).
func NewBarcodeAllocator(gen *barcode.Generator, maxAttempts int) *BarcodeAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultBarcodeAttempts
	}
	return &BarcodeAllocator{gen: gen, maxAttempts: maxAttempts}
}

// Allocate devuelve el primer candidato libre o ErrBarcodeExhausted.
func (a *BarcodeAllocator) Allocate(ctx context.Context, lookup BarcodeLookup) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		code := a.gen.Next()
		existing, err := lookup.GetByBarcode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("verificar código de barras: %w", err)
		}
		if existing == nil {
			return code, nil
		}
		if a.onCollision != nil {
			a.onCollision()
		}
	}
	return "", domain.ErrBarcodeExhausted
}

// NewBarcode reserva (sin persistir) un código libre para etiquetar manualmente.
func (s *Service) NewBarcode(ctx context.Context) (string, error) {
	return s.barcodes.Allocate(ctx, s.products)
}
