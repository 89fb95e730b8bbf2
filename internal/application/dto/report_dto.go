package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSummaryDTO respuesta de GET /api/reports/summary.
type ReportSummaryDTO struct {
	GeneratedAt   time.Time `json:"generated_at"`
	TotalProducts int       `json:"total_products"`
	TotalUnits    int       `json:"total_units"`

	ByStatus   []StatusCountDTO `json:"by_status"`
	ByCategory []GroupCountDTO  `json:"by_category"`
	ByLocation []GroupCountDTO  `json:"by_location"`

	Movements       MovementTotalsDTO  `json:"movements"`
	RecentMovements []MovementResponse `json:"recent_movements"` // últimos 20
}

// StatusCountDTO productos por estado con su participación sobre el total.
type StatusCountDTO struct {
	Status string          `json:"status"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Share  decimal.Decimal `json:"share"` // porcentaje con 2 decimales
}

// GroupCountDTO conteo de productos y unidades por categoría o ubicación.
type GroupCountDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Units int    `json:"units"`
}

// MovementTotalsDTO totales del libro.
type MovementTotalsDTO struct {
	Count    int `json:"count"`
	InUnits  int `json:"in_units"`
	OutUnits int `json:"out_units"`
}

// AuditReportDTO respuesta de POST /api/inventory/reconcile.
type AuditReportDTO struct {
	CheckedAt time.Time  `json:"checked_at"`
	Products  int        `json:"products"`
	Movements int        `json:"movements"`
	Drifts    []DriftDTO `json:"drifts"`
}

// DriftDTO producto cuya cantidad no cuadra con su libro.
type DriftDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Recorded  int    `json:"recorded"`
	Expected  int    `json:"expected"`
	Diff      int    `json:"diff"`
}
