package inventory

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// En PostgreSQL garantiza atomicidad; el backend Supabase ejecuta las llamadas en secuencia sin rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// EventPublisher publica los cambios confirmados del libro de movimientos.
type EventPublisher interface {
	Publish(ctx context.Context, events ...LedgerEvent) error
}

// ChangeNotifier recibe aviso de cada mutación confirmada (invalida cachés derivadas).
type ChangeNotifier interface {
	Bump(ctx context.Context) error
}

// Metrics contadores operativos del inventario.
type Metrics interface {
	LedgerOperation(kind, movementType string)
	BarcodeCollision()
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...LedgerEvent) error { return nil }

type nopNotifier struct{}

func (nopNotifier) Bump(context.Context) error { return nil }

type nopMetrics struct{}

func (nopMetrics) LedgerOperation(string, string) {}
func (nopMetrics) BarcodeCollision()              {}
