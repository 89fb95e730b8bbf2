package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/pkg/textnorm"
)

// AddCategory crea una categoría. Los nombres son únicos sin distinguir mayúsculas.
func (s *Service) AddCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	var out entity.Category
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		key := textnorm.Key(name)
		for _, c := range s.categoryByID {
			if textnorm.Key(c.Name) == key {
				return nil, domain.ErrDuplicate
			}
		}
		c := entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: s.now()}
		if err := s.categories.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("crear categoría: %w", err)
		}
		s.categoryByID[c.ID] = c
		out = c
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCategory elimina una categoría. Los productos que la referencian no se modifican.
func (s *Service) RemoveCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]LedgerEvent, error) {
		if _, ok := s.categoryByID[id]; !ok {
			return nil, domain.ErrNotFound
		}
		if err := s.categories.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("eliminar categoría: %w", err)
		}
		delete(s.categoryByID, id)
		return nil, nil
	})
}

// AddLocation crea una ubicación.
func (s *Service) AddLocation(ctx context.Context, name, description string) (*entity.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	var out entity.Location
	err := s.mutate(ctx, func() ([]LedgerEvent, error) {
		key := textnorm.Key(name)
		for _, l := range s.locationByID {
			if textnorm.Key(l.Name) == key {
				return nil, domain.ErrDuplicate
			}
		}
		l := entity.Location{
			ID:          uuid.New().String(),
			Name:        name,
			Description: strings.TrimSpace(description),
			CreatedAt:   s.now(),
		}
		if err := s.locations.Create(ctx, &l); err != nil {
			return nil, fmt.Errorf("crear ubicación: %w", err)
		}
		s.locationByID[l.ID] = l
		out = l
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveLocation elimina una ubicación. Productos y movimientos conservan el ID huérfano.
func (s *Service) RemoveLocation(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]LedgerEvent, error) {
		if _, ok := s.locationByID[id]; !ok {
			return nil, domain.ErrNotFound
		}
		if err := s.locations.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("eliminar ubicación: %w", err)
		}
		delete(s.locationByID, id)
		return nil, nil
	})
}
