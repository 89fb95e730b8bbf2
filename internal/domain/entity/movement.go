package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIn  = "In"  // entrada (check-in)
	MovementTypeOut = "Out" // salida (check-out)
)

// Movement representa un registro del libro de movimientos. Editable y eliminable:
// ambas operaciones ajustan retroactivamente la cantidad del producto.
type Movement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    int // siempre positivo; el signo lo da Type
	Description string
	LocationID  string
	UserID      string
	CreatedAt   time.Time
}

// ValidMovementType indica si t es In u Out.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}
