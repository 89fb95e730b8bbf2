package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/inventory"
)

// Drift diferencia entre la cantidad guardada y la que resulta del libro.
type Drift struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Recorded  int    `json:"recorded"`
	Expected  int    `json:"expected"`
	Diff      int    `json:"diff"`
}

// AuditReport resultado de una auditoría del libro.
type AuditReport struct {
	CheckedAt time.Time `json:"checked_at"`
	Products  int       `json:"products"`
	Movements int       `json:"movements"`
	Drifts    []Drift   `json:"drifts"`
}

// Reconcile compara, sobre la caché, cada producto con OpeningQuantity + Σ efectos de sus movimientos.
func (s *Service) Reconcile() AuditReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movements := s.sortedMovementsLocked("")
	balance := inventory.LedgerBalance(movements)
	report := AuditReport{
		CheckedAt: s.now(),
		Products:  len(s.productByID),
		Movements: len(movements),
		Drifts:    []Drift{},
	}
	for _, p := range s.productByID {
		expected := p.OpeningQuantity + balance[p.ID]
		if expected == p.Quantity {
			continue
		}
		report.Drifts = append(report.Drifts, Drift{
			ProductID: p.ID,
			Name:      p.Name,
			Barcode:   p.Barcode,
			Recorded:  p.Quantity,
			Expected:  expected,
			Diff:      p.Quantity - expected,
		})
	}
	sort.Slice(report.Drifts, func(i, j int) bool { return report.Drifts[i].ProductID < report.Drifts[j].ProductID })
	return report
}

// Audit recarga desde el almacén y luego reconcilia (usado por el job programado).
func (s *Service) Audit(ctx context.Context) (AuditReport, error) {
	if err := s.Load(ctx); err != nil {
		return AuditReport{}, err
	}
	report := s.Reconcile()
	if len(report.Drifts) > 0 {
		s.log.Warn().Int("drifts", len(report.Drifts)).Msg("auditoría del libro: cantidades descuadradas")
	} else {
		s.log.Info().Int("products", report.Products).Msg("auditoría del libro sin diferencias")
	}
	return report, nil
}
