package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// CreateProductInput entrada para dar de alta equipos. Quantity N crea N registros con cantidad 1.
type CreateProductInput struct {
	Name         string
	Brand        string
	Model        string
	CategoryID   string
	Status       string // vacío = InStock
	LocationID   string
	SerialNumber string
	Description  string
	Barcode      string // solo permitido si Quantity == 1
	Quantity     int
}

// UpdateProductInput campos opcionales para editar un producto.
type UpdateProductInput struct {
	Name         *string
	Brand        *string
	Model        *string
	CategoryID   *string
	Status       *string
	LocationID   *string
	SerialNumber *string
	Description  *string
	Barcode      *string
	Quantity     *int
}

// MaxUnitsPerCreate tope de unidades de un alta (formulario o fila de planilla).
// Debe coincidir con el max de dto.CreateProductRequest.Quantity.
const MaxUnitsPerCreate = 500

// CreateProducts crea un registro por unidad, cada uno con su propio código de barras.
// Con número de serie y más de una unidad, la serie se sufija -1..-N.
func (s *Service) CreateProducts(ctx context.Context, in CreateProductInput) ([]entity.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.Name == "" || in.CategoryID == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity > MaxUnitsPerCreate {
		return nil, fmt.Errorf("máximo %d unidades por alta: %w", MaxUnitsPerCreate, domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = entity.StatusInStock
	}
	if !entity.ValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" && in.Quantity > 1 {
		return nil, fmt.Errorf("un código de barras explícito solo admite una unidad: %w", domain.ErrInvalidInput)
	}

	var created []entity.Product
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		if _, ok := s.categoryByID[in.CategoryID]; !ok {
			return nil, fmt.Errorf("categoría desconocida: %w", domain.ErrInvalidInput)
		}
		if in.LocationID != "" {
			if _, ok := s.locationByID[in.LocationID]; !ok {
				return nil, fmt.Errorf("ubicación desconocida: %w", domain.ErrInvalidInput)
			}
		}
		if in.Barcode != "" && s.barcodeTakenLocked(in.Barcode, "") {
			return nil, domain.ErrDuplicate
		}

		now := s.now()
		rows := make([]entity.Product, 0, in.Quantity)
		err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.MovementRepository) error {
			rows = rows[:0]
			for i := 0; i < in.Quantity; i++ {
				code := in.Barcode
				if code == "" {
					var err error
					if code, err = s.barcodes.Allocate(ctx, productRepo); err != nil {
						return err
					}
				} else {
					existing, err := productRepo.GetByBarcode(ctx, code)
					if err != nil {
						return fmt.Errorf("verificar código de barras: %w", err)
					}
					if existing != nil {
						return domain.ErrDuplicate
					}
				}
				serial := in.SerialNumber
				if serial != "" && in.Quantity > 1 {
					serial = fmt.Sprintf("%s-%d", serial, i+1)
				}
				p := entity.Product{
					ID:              uuid.New().String(),
					Name:            in.Name,
					Brand:           strings.TrimSpace(in.Brand),
					Model:           strings.TrimSpace(in.Model),
					CategoryID:      in.CategoryID,
					Status:          in.Status,
					LocationID:      in.LocationID,
					SerialNumber:    serial,
					Barcode:         code,
					Quantity:        1,
					OpeningQuantity: 1,
					Description:     strings.TrimSpace(in.Description),
					CreatedAt:       now,
					UpdatedAt:       now,
				}
				if err := productRepo.Create(ctx, &p); err != nil {
					return err
				}
				rows = append(rows, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("crear productos: %w", err)
		}
		for _, p := range rows {
			s.productByID[p.ID] = p
		}
		created = rows
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("name", in.Name).Int("units", len(created)).Msg("productos creados")
	return created, nil
}

// UpdateProduct aplica una edición parcial. Editar Quantity directamente queda fuera del libro
// y aparece como diferencia en la auditoría.
func (s *Service) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	var out entity.Product
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		p, ok := s.productByID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return nil, domain.ErrInvalidInput
			}
			p.Name = name
		}
		if in.Brand != nil {
			p.Brand = strings.TrimSpace(*in.Brand)
		}
		if in.Model != nil {
			p.Model = strings.TrimSpace(*in.Model)
		}
		if in.CategoryID != nil {
			if _, ok := s.categoryByID[*in.CategoryID]; !ok {
				return nil, fmt.Errorf("categoría desconocida: %w", domain.ErrInvalidInput)
			}
			p.CategoryID = *in.CategoryID
		}
		if in.Status != nil {
			if !entity.ValidStatus(*in.Status) {
				return nil, domain.ErrInvalidInput
			}
			p.Status = *in.Status
		}
		if in.LocationID != nil {
			if *in.LocationID != "" {
				if _, ok := s.locationByID[*in.LocationID]; !ok {
					return nil, fmt.Errorf("ubicación desconocida: %w", domain.ErrInvalidInput)
				}
			}
			p.LocationID = *in.LocationID
		}
		if in.SerialNumber != nil {
			p.SerialNumber = strings.TrimSpace(*in.SerialNumber)
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Barcode != nil {
			code := strings.TrimSpace(*in.Barcode)
			if code == "" {
				return nil, domain.ErrInvalidInput
			}
			if s.barcodeTakenLocked(code, p.ID) {
				return nil, domain.ErrDuplicate
			}
			p.Barcode = code
		}
		if in.Quantity != nil {
			p.Quantity = *in.Quantity
		}
		p.UpdatedAt = s.now()

		if err := s.products.Update(ctx, &p); err != nil {
			return nil, fmt.Errorf("actualizar producto: %w", err)
		}
		s.productByID[p.ID] = p
		out = p
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct borra los movimientos del producto y luego el producto.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.DeleteProducts(ctx, []string{id})
}

// DeleteProducts borra varios productos con la misma cascada sobre sus movimientos.
func (s *Service) DeleteProducts(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	return s.mutate(ctx, func() ([]LedgerEvent, error) {
		for _, id := range ids {
			if _, ok := s.productByID[id]; !ok {
				return nil, domain.ErrNotFound
			}
		}
		err := s.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
			for _, id := range ids {
				if err := movementRepo.DeleteByProduct(ctx, id); err != nil {
					return err
				}
				if err := productRepo.Delete(ctx, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("eliminar productos: %w", err)
		}

		gone := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			gone[id] = struct{}{}
			delete(s.productByID, id)
		}
		for mid, m := range s.movementByID {
			if _, ok := gone[m.ProductID]; ok {
				delete(s.movementByID, mid)
			}
		}
		return nil, nil
	})
}

func (s *Service) barcodeTakenLocked(code, exceptID string) bool {
	for _, p := range s.productByID {
		if p.Barcode == code && p.ID != exceptID {
			return true
		}
	}
	return false
}
