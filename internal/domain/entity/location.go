package entity

import "time"

// Location representa una ubicación física (bodega, hotel, cliente, taller).
type Location struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
