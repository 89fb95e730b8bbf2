package entity

import "time"

// Estados posibles de un producto (equipo) del inventario.
const (
	StatusInStock   = "InStock"   // en bodega
	StatusInService = "InService" // en servicio técnico
	StatusRented    = "Rented"    // alquilado
	StatusAtClient  = "AtClient"  // instalado donde el cliente
	StatusDepleted  = "Depleted"  // sin existencias
)

// Statuses todos los estados, en orden de presentación.
var Statuses = []string{StatusInStock, StatusInService, StatusRented, StatusAtClient, StatusDepleted}

// statusLabels etiquetas en turco usadas por las planillas Excel.
var statusLabels = map[string]string{
	StatusInStock:   "Depoda",
	StatusInService: "Serviste",
	StatusRented:    "Kiralandı",
	StatusAtClient:  "Otelde",
	StatusDepleted:  "Tükenmiş",
}

// Product representa un equipo del inventario. Quantity se recalcula con cada movimiento;
// OpeningQuantity guarda la cantidad con la que se creó el registro (auditoría del libro).
type Product struct {
	ID              string
	Name            string
	Brand           string
	Model           string
	CategoryID      string
	Status          string
	LocationID      string // vacío si no tiene ubicación
	SerialNumber    string
	Barcode         string // único
	Quantity        int
	OpeningQuantity int
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatus indica si s es uno de los estados conocidos.
func ValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// StatusLabel devuelve la etiqueta en turco del estado (o el valor tal cual si no se conoce).
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// StatusFromLabel acepta tanto el valor del enum como su etiqueta en turco.
func StatusFromLabel(label string) (string, bool) {
	if ValidStatus(label) {
		return label, true
	}
	for status, l := range statusLabels {
		if l == label {
			return status, true
		}
	}
	if label == "Müşteride" {
		return StatusAtClient, true
	}
	return "", false
}
