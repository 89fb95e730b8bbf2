package inventory

import "time"

// Tipos de evento del libro.
const (
	EventMovementAdded   = "movement.added"
	EventMovementUpdated = "movement.updated"
	EventMovementRemoved = "movement.removed"
)

// LedgerEvent describe un cambio confirmado sobre el libro y su efecto en el producto.
type LedgerEvent struct {
	Kind         string    `json:"kind"`
	MovementID   string    `json:"movement_id"`
	ProductID    string    `json:"product_id"`
	MovementType string    `json:"movement_type,omitempty"`
	Delta        int       `json:"delta"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	LocationID   string    `json:"location_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	At           time.Time `json:"at"`
}
