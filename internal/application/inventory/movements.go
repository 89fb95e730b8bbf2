package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// AddMovementInput entrada para registrar un movimiento (check-in / check-out).
type AddMovementInput struct {
	ProductID   string
	Type        string // In | Out
	Quantity    int
	LocationID  string
	Description string
	UserID      string
}

// UpdateMovementInput campos opcionales para editar un movimiento.
type UpdateMovementInput struct {
	Type        *string
	Quantity    *int
	LocationID  *string
	Description *string
}

// BulkMovementInput mismo movimiento aplicado a varios productos (envío a bodega / salida en lote).
type BulkMovementInput struct {
	ProductIDs  []string
	Type        string
	Quantity    int
	LocationID  string
	Description string
	UserID      string
}

// MovementResult movimiento registrado junto con el producto ya recalculado.
type MovementResult struct {
	Movement entity.Movement
	Product  entity.Product
}

// AddMovement registra un movimiento: suma (In) o resta (Out) la cantidad al producto,
// mueve el producto a la ubicación del movimiento y recalcula el estado.
func (s *Service) AddMovement(ctx context.Context, in AddMovementInput) (*MovementResult, error) {
	results, err := s.addMovements(ctx, []AddMovementInput{in})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// AddMovements aplica el mismo movimiento a varios productos dentro de una sola transacción.
func (s *Service) AddMovements(ctx context.Context, in BulkMovementInput) ([]MovementResult, error) {
	ids := uniqueIDs(in.ProductIDs)
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}
	inputs := make([]AddMovementInput, 0, len(ids))
	for _, id := range ids {
		inputs = append(inputs, AddMovementInput{
			ProductID:   id,
			Type:        in.Type,
			Quantity:    in.Quantity,
			LocationID:  in.LocationID,
			Description: in.Description,
			UserID:      in.UserID,
		})
	}
	return s.addMovements(ctx, inputs)
}

func (s *Service) addMovements(ctx context.Context, inputs []AddMovementInput) ([]MovementResult, error) {
	for _, in := range inputs {
		if !entity.ValidMovementType(in.Type) || in.Quantity <= 0 || in.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	var results []MovementResult
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		now := s.now()
		pending := make(map[string]entity.Product, len(inputs))
		results = make([]MovementResult, 0, len(inputs))
		for _, in := range inputs {
			p, ok := pending[in.ProductID]
			if !ok {
				if p, ok = s.productByID[in.ProductID]; !ok {
					return nil, domain.ErrNotFound
				}
			}
			if in.LocationID != "" {
				if _, ok := s.locationByID[in.LocationID]; !ok {
					return nil, fmt.Errorf("ubicación desconocida: %w", domain.ErrInvalidInput)
				}
			}
			mov := entity.Movement{
				ID:          uuid.New().String(),
				ProductID:   in.ProductID,
				Type:        in.Type,
				Quantity:    in.Quantity,
				Description: strings.TrimSpace(in.Description),
				LocationID:  in.LocationID,
				UserID:      in.UserID,
				CreatedAt:   now,
			}
			p.Quantity += inventory.Effect(mov.Type, mov.Quantity)
			if mov.LocationID != "" {
				p.LocationID = mov.LocationID
			}
			p.Status = inventory.StatusForQuantity(p.Quantity)
			p.UpdatedAt = now
			pending[p.ID] = p
			results = append(results, MovementResult{Movement: mov})
		}

		err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
			for i := range results {
				if err := movementRepo.Create(ctx, &results[i].Movement); err != nil {
					return err
				}
			}
			for _, id := range sortedKeys(pending) {
				p := pending[id]
				if err := productRepo.UpdateStock(ctx, p.ID, p.Quantity, p.Status, p.LocationID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("registrar movimiento: %w", err)
		}

		events := make([]LedgerEvent, 0, len(results))
		for i := range results {
			mov := results[i].Movement
			p := pending[mov.ProductID]
			s.movementByID[mov.ID] = mov
			s.productByID[p.ID] = p
			results[i].Product = p
			events = append(events, LedgerEvent{
				Kind:         EventMovementAdded,
				MovementID:   mov.ID,
				ProductID:    mov.ProductID,
				MovementType: mov.Type,
				Delta:        inventory.Effect(mov.Type, mov.Quantity),
				Quantity:     p.Quantity,
				Status:       p.Status,
				LocationID:   p.LocationID,
				UserID:       mov.UserID,
				At:           now,
			})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateMovement edita un movimiento: revierte el efecto anterior y aplica el nuevo.
// Los campos omitidos conservan el valor previo. La ubicación del producto solo cambia
// si se envía una nueva.
func (s *Service) UpdateMovement(ctx context.Context, id string, in UpdateMovementInput) (*MovementResult, error) {
	if in.Type != nil && !entity.ValidMovementType(*in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result MovementResult
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		old, ok := s.movementByID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		p, ok := s.productByID[old.ProductID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if in.LocationID != nil && *in.LocationID != "" {
			if _, ok := s.locationByID[*in.LocationID]; !ok {
				return nil, fmt.Errorf("ubicación desconocida: %w", domain.ErrInvalidInput)
			}
		}

		mov := old
		if in.Type != nil {
			mov.Type = *in.Type
		}
		if in.Quantity != nil {
			mov.Quantity = *in.Quantity
		}
		if in.LocationID != nil {
			mov.LocationID = *in.LocationID
		}
		if in.Description != nil {
			mov.Description = strings.TrimSpace(*in.Description)
		}

		now := s.now()
		delta := inventory.UpdateDelta(old.Type, old.Quantity, mov.Type, mov.Quantity)
		p.Quantity += delta
		if in.LocationID != nil && *in.LocationID != "" {
			p.LocationID = *in.LocationID
		}
		p.Status = inventory.StatusForQuantity(p.Quantity)
		p.UpdatedAt = now

		err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
			if err := movementRepo.Update(ctx, &mov); err != nil {
				return err
			}
			return productRepo.UpdateStock(ctx, p.ID, p.Quantity, p.Status, p.LocationID)
		})
		if err != nil {
			return nil, fmt.Errorf("actualizar movimiento: %w", err)
		}

		s.movementByID[mov.ID] = mov
		s.productByID[p.ID] = p
		result = MovementResult{Movement: mov, Product: p}
		return []LedgerEvent{{
			Kind:         EventMovementUpdated,
			MovementID:   mov.ID,
			ProductID:    p.ID,
			MovementType: mov.Type,
			Delta:        delta,
			Quantity:     p.Quantity,
			Status:       p.Status,
			LocationID:   p.LocationID,
			UserID:       mov.UserID,
			At:           now,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveMovement elimina un movimiento revirtiendo su efecto sobre el producto.
// Si el producto ya no existe solo se borra el movimiento.
func (s *Service) RemoveMovement(ctx context.Context, id string) error {
	return s.RemoveMovements(ctx, []string{id})
}

// RemoveMovements elimina varios movimientos: acumula las reversiones por producto,
// actualiza cada producto una sola vez y borra todos los movimientos en una llamada.
// Si algún ID no existe no se escribe nada.
func (s *Service) RemoveMovements(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}

	return s.mutate(ctx, func() ([]LedgerEvent, error) {
		batch := make([]entity.Movement, 0, len(ids))
		for _, id := range ids {
			m, ok := s.movementByID[id]
			if !ok {
				return nil, domain.ErrNotFound
			}
			batch = append(batch, m)
		}

		now := s.now()
		updated := make(map[string]entity.Product)
		for productID, delta := range inventory.NetReversals(batch) {
			p, ok := s.productByID[productID]
			if !ok {
				continue
			}
			p.Quantity += delta
			p.Status = inventory.StatusForQuantity(p.Quantity)
			p.UpdatedAt = now
			updated[productID] = p
		}

		err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
			for _, id := range sortedKeys(updated) {
				p := updated[id]
				if err := productRepo.UpdateStock(ctx, p.ID, p.Quantity, p.Status, p.LocationID); err != nil {
					return err
				}
			}
			if len(ids) == 1 {
				return movementRepo.Delete(ctx, ids[0])
			}
			return movementRepo.DeleteMany(ctx, ids)
		})
		if err != nil {
			return nil, fmt.Errorf("eliminar movimientos: %w", err)
		}

		events := make([]LedgerEvent, 0, len(batch))
		for _, m := range batch {
			delete(s.movementByID, m.ID)
			ev := LedgerEvent{
				Kind:         EventMovementRemoved,
				MovementID:   m.ID,
				ProductID:    m.ProductID,
				MovementType: m.Type,
				Delta:        inventory.Reversal(m.Type, m.Quantity),
				At:           now,
			}
			if p, ok := updated[m.ProductID]; ok {
				ev.Quantity = p.Quantity
				ev.Status = p.Status
				ev.LocationID = p.LocationID
			}
			events = append(events, ev)
		}
		for id, p := range updated {
			s.productByID[id] = p
		}
		return events, nil
	})
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
