package dto

import "time"

// CreateMovementRequest body para POST /api/movements.
type CreateMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=In Out"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	LocationID  string `json:"location_id"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateMovementRequest body para PUT /api/movements/:id. Campos omitidos conservan su valor.
type UpdateMovementRequest struct {
	Type        *string `json:"type" validate:"omitempty,oneof=In Out"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=1"`
	LocationID  *string `json:"location_id"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// BulkMovementRequest mismo movimiento para varios productos.
type BulkMovementRequest struct {
	ProductIDs  []string `json:"product_ids" validate:"required,min=1,dive,required"`
	Type        string   `json:"type" validate:"required,oneof=In Out"`
	Quantity    int      `json:"quantity" validate:"omitempty,min=1"`
	LocationID  string   `json:"location_id"`
	Description string   `json:"description" validate:"max=500"`
}

// MovementResponse salida de un movimiento con el producto resuelto.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Barcode      string    `json:"barcode"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	LocationID   string    `json:"location_id,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	Username     string    `json:"username,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementResultResponse movimiento registrado y el producto ya recalculado.
type MovementResultResponse struct {
	Movement MovementResponse `json:"movement"`
	Product  ProductResponse  `json:"product"`
}
