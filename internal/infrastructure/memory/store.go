// Package memory implementa los repositorios sobre mapas en memoria. Se usa con DATA_BACKEND=memory
// para demos locales y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

type tables struct {
	products   map[string]entity.Product
	movements  map[string]entity.Movement
	categories map[string]entity.Category
	locations  map[string]entity.Location
	users      map[string]entity.User
}

func newTables() *tables {
	return &tables{
		products:   map[string]entity.Product{},
		movements:  map[string]entity.Movement{},
		categories: map[string]entity.Category{},
		locations:  map[string]entity.Location{},
		users:      map[string]entity.User{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.movements {
		c.movements[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.locations {
		c.locations[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	return c
}

// Store datos confirmados más inyección de fallos y conteo de llamadas para tests.
type Store struct {
	mu   sync.Mutex
	data *tables

	faultMu sync.Mutex
	faults  map[string]error
	calls   map[string]int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newTables(), faults: map[string]error{}, calls: map[string]int{}}
}

// FailOn hace que la operación op ("products.UpdateStock", "movements.DeleteMany", ...) devuelva err.
// err nil elimina el fallo.
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Calls devuelve cuántas veces se invocó op.
func (s *Store) Calls(op string) int {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.calls[op]
}

func (s *Store) hit(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.calls[op]++
	return s.faults[op]
}

// scope acceso a las tablas: fuera de una transacción toma el candado del Store;
// dentro de una transacción usa la copia de trabajo (el runner ya tiene el candado).
type scope struct {
	store *Store
	tx    *tables
}

func (sc scope) open() (*tables, func()) {
	if sc.tx != nil {
		return sc.tx, func() {}
	}
	sc.store.mu.Lock()
	return sc.store.data, sc.store.mu.Unlock
}

// Repositorios fuera de transacción.

// Products repositorio de productos sobre el Store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{scope{store: s}} }

// Movements repositorio de movimientos sobre el Store.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{scope{store: s}} }

// Categories repositorio de categorías sobre el Store.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{scope{store: s}} }

// Locations repositorio de ubicaciones sobre el Store.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{scope{store: s}} }

// Users repositorio de usuarios sobre el Store.
func (s *Store) Users() *UserRepo { return &UserRepo{scope{store: s}} }

// TxRunner ejecuta el callback sobre una copia y la confirma solo si no hubo error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn de forma atómica respecto del Store.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.data.clone()
	sc := scope{store: r.store, tx: work}
	if err := fn(&ProductRepo{sc}, &MovementRepo{sc}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.data = work
	return nil
}
