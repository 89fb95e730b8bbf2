package repository

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context) ([]*entity.Movement, error)
	Delete(ctx context.Context, id string) error
	// DeleteMany elimina varios movimientos en una sola llamada.
	DeleteMany(ctx context.Context, ids []string) error
	DeleteByProduct(ctx context.Context, productID string) error
}
