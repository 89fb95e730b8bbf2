// Package labels impresión de etiquetas con código de barras.
package labels

import (
	"context"
	"strings"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// Label datos de una etiqueta.
type Label struct {
	Title   string // nombre del producto
	Detail  string // marca / modelo / serie
	Barcode string
}

// Generator puerto de salida: arma el documento de etiquetas.
type Generator interface {
	GenerateLabels(ctx context.Context, labels []Label) ([]byte, error)
}

// ProductSource resuelve productos por ID.
type ProductSource interface {
	Product(id string) (entity.Product, error)
}

// LabelsUseCase genera etiquetas de productos existentes.
type LabelsUseCase struct {
	products  ProductSource
	generator Generator
}

// NewLabelsUseCase construye el caso de uso.
func NewLabelsUseCase(products ProductSource, generator Generator) *LabelsUseCase {
	return &LabelsUseCase{products: products, generator: generator}
}

// Generate devuelve el PDF con una etiqueta por producto, en el orden pedido.
// Un ID desconocido aborta con ErrNotFound.
func (uc *LabelsUseCase) Generate(ctx context.Context, productIDs []string) ([]byte, error) {
	if len(productIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	list := make([]Label, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := uc.products.Product(id)
		if err != nil {
			return nil, err
		}
		list = append(list, ForProduct(p))
	}
	return uc.generator.GenerateLabels(ctx, list)
}

// ForProduct arma la etiqueta de un producto.
func ForProduct(p entity.Product) Label {
	var parts []string
	for _, s := range []string{p.Brand, p.Model} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if p.SerialNumber != "" {
		parts = append(parts, "SN "+p.SerialNumber)
	}
	return Label{Title: p.Name, Detail: strings.Join(parts, " / "), Barcode: p.Barcode}
}
