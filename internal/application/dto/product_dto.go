package dto

import "time"

// CreateProductRequest entrada para dar de alta equipos. Quantity N crea N registros.
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Brand        string `json:"brand" validate:"max=100"`
	Model        string `json:"model" validate:"max=100"`
	CategoryID   string `json:"category_id" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=InStock InService Rented AtClient Depleted"`
	LocationID   string `json:"location_id"`
	SerialNumber string `json:"serial_number" validate:"max=100"`
	Description  string `json:"description"`
	Barcode      string `json:"barcode" validate:"max=64"`
	Quantity     int    `json:"quantity" validate:"omitempty,min=1,max=500"` // max = inventory.MaxUnitsPerCreate
}

// UpdateProductRequest edición parcial de un producto.
type UpdateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	CategoryID   *string `json:"category_id"`
	Status       *string `json:"status" validate:"omitempty,oneof=InStock InService Rented AtClient Depleted"`
	LocationID   *string `json:"location_id"`
	SerialNumber *string `json:"serial_number"`
	Description  *string `json:"description"`
	Barcode      *string `json:"barcode"`
	Quantity     *int    `json:"quantity"`
}

// IDsRequest lista de ids para operaciones en lote.
type IDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ProductResponse salida de un producto con nombres de categoría y ubicación resueltos.
type ProductResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	CategoryID      string    `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	Status          string    `json:"status"`
	StatusLabel     string    `json:"status_label"`
	LocationID      string    `json:"location_id,omitempty"`
	LocationName    string    `json:"location_name,omitempty"`
	SerialNumber    string    `json:"serial_number,omitempty"`
	Barcode         string    `json:"barcode"`
	Quantity        int       `json:"quantity"`
	OpeningQuantity int       `json:"opening_quantity"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportResponse resultado de una importación desde Excel.
type ImportResponse struct {
	Rows     int              `json:"rows"`
	Created  int              `json:"created"`
	Errors   []ImportRowError `json:"errors"`
	Barcodes []string         `json:"barcodes"`
}

// ImportRowError error de una fila de la planilla.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BarcodeResponse código de barras recién generado.
type BarcodeResponse struct {
	Barcode string `json:"barcode"`
}

// LabelsRequest productos para imprimir etiquetas.
type LabelsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=200,dive,required"`
}
