// Package report resúmenes del inventario para el tablero.
package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// RecentMovements cantidad de movimientos recientes incluidos en el resumen.
const RecentMovements = 20

// Cache lectura cacheada por versión (ver infrastructure/cache). Puede ser nil.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
}

// SnapshotSource origen del estado del inventario.
type SnapshotSource interface {
	Snapshot() inventory.Snapshot
}

// ReportUseCase arma el resumen del inventario.
type ReportUseCase struct {
	source SnapshotSource
	cache  Cache
}

// NewReportUseCase construye el caso de uso. cache nil calcula siempre.
func NewReportUseCase(source SnapshotSource, cache Cache) *ReportUseCase {
	return &ReportUseCase{source: source, cache: cache}
}

// Summary devuelve el resumen, desde la caché si la versión no cambió.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.ReportSummaryDTO, error) {
	if uc.cache == nil {
		out := BuildSummary(uc.source.Snapshot())
		return &out, nil
	}
	key, err := uc.cache.BuildKey(ctx, "equipos", "reports", "summary")
	if err != nil {
		return nil, err
	}
	var out dto.ReportSummaryDTO
	err = uc.cache.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return BuildSummary(uc.source.Snapshot()), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildSummary calcula el resumen sobre una copia del inventario.
func BuildSummary(snap inventory.Snapshot) dto.ReportSummaryDTO {
	out := dto.ReportSummaryDTO{
		GeneratedAt:     snap.LoadedAt,
		TotalProducts:   len(snap.Products),
		ByStatus:        make([]dto.StatusCountDTO, 0, len(entity.Statuses)),
		ByCategory:      []dto.GroupCountDTO{},
		ByLocation:      []dto.GroupCountDTO{},
		RecentMovements: []dto.MovementResponse{},
	}

	byStatus := map[string]int{}
	byCategory := map[string]*dto.GroupCountDTO{}
	byLocation := map[string]*dto.GroupCountDTO{}
	productByID := make(map[string]entity.Product, len(snap.Products))
	for _, p := range snap.Products {
		productByID[p.ID] = p
		out.TotalUnits += p.Quantity
		byStatus[p.Status]++
		addGroup(byCategory, p.CategoryID, snap.CategoryName(p.CategoryID), p.Quantity)
		addGroup(byLocation, p.LocationID, snap.LocationName(p.LocationID), p.Quantity)
	}

	total := decimal.NewFromInt(int64(len(snap.Products)))
	hundred := decimal.NewFromInt(100)
	for _, st := range entity.Statuses {
		n := byStatus[st]
		share := decimal.Zero
		if !total.IsZero() {
			share = decimal.NewFromInt(int64(n)).Mul(hundred).Div(total).Round(2)
		}
		out.ByStatus = append(out.ByStatus, dto.StatusCountDTO{
			Status: st,
			Label:  entity.StatusLabel(st),
			Count:  n,
			Share:  share,
		})
	}
	out.ByCategory = sortedGroups(byCategory)
	out.ByLocation = sortedGroups(byLocation)

	for i, m := range snap.Movements {
		out.Movements.Count++
		if m.Type == entity.MovementTypeIn {
			out.Movements.InUnits += m.Quantity
		} else {
			out.Movements.OutUnits += m.Quantity
		}
		if i < RecentMovements {
			out.RecentMovements = append(out.RecentMovements,
				dto.NewMovementResponse(m, productByID[m.ProductID], snap.LocationName(m.LocationID)))
		}
	}
	return out
}

func addGroup(groups map[string]*dto.GroupCountDTO, id, name string, units int) {
	g, ok := groups[id]
	if !ok {
		if id == "" {
			name = "Sin asignar"
		}
		g = &dto.GroupCountDTO{ID: id, Name: name}
		groups[id] = g
	}
	g.Count++
	g.Units += units
}

// sortedGroups de mayor a menor cantidad de productos; empate por nombre.
func sortedGroups(groups map[string]*dto.GroupCountDTO) []dto.GroupCountDTO {
	out := make([]dto.GroupCountDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
