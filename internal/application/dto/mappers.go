package dto

import "github.com/jhoicas/Equipos-api/internal/domain/entity"

// NewProductResponse arma la salida de un producto con los nombres ya resueltos.
func NewProductResponse(p entity.Product, categoryName, locationName string) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Brand:           p.Brand,
		Model:           p.Model,
		CategoryID:      p.CategoryID,
		CategoryName:    categoryName,
		Status:          p.Status,
		StatusLabel:     entity.StatusLabel(p.Status),
		LocationID:      p.LocationID,
		LocationName:    locationName,
		SerialNumber:    p.SerialNumber,
		Barcode:         p.Barcode,
		Quantity:        p.Quantity,
		OpeningQuantity: p.OpeningQuantity,
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// NewMovementResponse arma la salida de un movimiento. product puede venir vacío si ya no existe.
func NewMovementResponse(m entity.Movement, product entity.Product, locationName string) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  product.Name,
		Barcode:      product.Barcode,
		Type:         m.Type,
		Quantity:     m.Quantity,
		LocationID:   m.LocationID,
		LocationName: locationName,
		Description:  m.Description,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
	}
}
