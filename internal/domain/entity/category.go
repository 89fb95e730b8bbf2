package entity

import "time"

// Category representa una categoría de equipos.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
