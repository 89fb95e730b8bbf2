package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/barcode"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/pkg/logger"
	"github.com/jhoicas/Equipos-api/pkg/textnorm"
)

// Deps dependencias del servicio de inventario. Events, Notifier, Metrics, Barcodes, Logger y Now son opcionales.
type Deps struct {
	TxRunner   TxRunner
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Barcodes   *BarcodeAllocator
	Events     EventPublisher
	Notifier   ChangeNotifier
	Metrics    Metrics
	Logger     *logger.Logger
	Now        func() time.Time
}

// Service es el agregado de inventario: mantiene en memoria productos, movimientos, categorías
// y ubicaciones, y aplica las operaciones del libro escribiendo primero en el almacén remoto.
// La caché solo se parchea después de que la escritura remota se confirma.
type Service struct {
	mu sync.RWMutex

	txRunner   TxRunner
	products   repository.ProductRepository
	movements  repository.MovementRepository
	categories repository.CategoryRepository
	locations  repository.LocationRepository
	barcodes   *BarcodeAllocator
	events     EventPublisher
	notifier   ChangeNotifier
	metrics    Metrics
	log        *logger.Logger
	now        func() time.Time

	productByID  map[string]entity.Product
	movementByID map[string]entity.Movement
	categoryByID map[string]entity.Category
	locationByID map[string]entity.Location
	loadedAt     time.Time
}

// NewService construye el servicio. La caché queda vacía hasta llamar Load.
func NewService(d Deps) *Service {
	s := &Service{
		txRunner:     d.TxRunner,
		products:     d.Products,
		movements:    d.Movements,
		categories:   d.Categories,
		locations:    d.Locations,
		barcodes:     d.Barcodes,
		events:       d.Events,
		notifier:     d.Notifier,
		metrics:      d.Metrics,
		log:          d.Logger,
		now:          d.Now,
		productByID:  map[string]entity.Product{},
		movementByID: map[string]entity.Movement{},
		categoryByID: map[string]entity.Category{},
		locationByID: map[string]entity.Location{},
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.barcodes == nil {
		s.barcodes = NewBarcodeAllocator(barcode.NewGenerator(barcode.DefaultPrefix), DefaultBarcodeAttempts)
	}
	s.barcodes.onCollision = s.metrics.BarcodeCollision
	return s
}

// Load lee las cuatro colecciones del almacén remoto y reemplaza la caché completa.
// Mantiene el candado de escritura durante toda la lectura: una mutación confirmada
// entre la lectura y el reemplazo quedaría pisada por datos viejos.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("cargar productos: %w", err)
	}
	movements, err := s.movements.List(ctx)
	if err != nil {
		return fmt.Errorf("cargar movimientos: %w", err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("cargar categorías: %w", err)
	}
	locations, err := s.locations.List(ctx)
	if err != nil {
		return fmt.Errorf("cargar ubicaciones: %w", err)
	}

	productByID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = *p
	}
	movementByID := make(map[string]entity.Movement, len(movements))
	for _, m := range movements {
		movementByID[m.ID] = *m
	}
	categoryByID := make(map[string]entity.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = *c
	}
	locationByID := make(map[string]entity.Location, len(locations))
	for _, l := range locations {
		locationByID[l.ID] = *l
	}

	s.productByID = productByID
	s.movementByID = movementByID
	s.categoryByID = categoryByID
	s.locationByID = locationByID
	s.loadedAt = s.now()

	s.log.Info().
		Int("products", len(productByID)).
		Int("movements", len(movementByID)).
		Int("categories", len(categoryByID)).
		Int("locations", len(locationByID)).
		Msg("inventario cargado")
	return nil
}

// Refresh es un alias de Load para recargar desde el almacén.
func (s *Service) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Snapshot copia inmutable del estado en memoria.
type Snapshot struct {
	Products   []entity.Product  // más recientes primero
	Movements  []entity.Movement // más recientes primero
	Categories []entity.Category // por nombre
	Locations  []entity.Location // por nombre
	LoadedAt   time.Time
}

// Snapshot devuelve una copia del estado actual.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products:   s.sortedProductsLocked(),
		Movements:  s.sortedMovementsLocked(""),
		Categories: s.sortedCategoriesLocked(),
		Locations:  s.sortedLocationsLocked(),
		LoadedAt:   s.loadedAt,
	}
}

// CategoryName devuelve el nombre de la categoría o vacío.
func (snap Snapshot) CategoryName(id string) string {
	for _, c := range snap.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// LocationName devuelve el nombre de la ubicación o vacío.
func (snap Snapshot) LocationName(id string) string {
	for _, l := range snap.Locations {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // nombre, marca, modelo, serie o código de barras
	CategoryID string
	Status     string
	LocationID string
	Sort       string // name, quantity, created_at (por defecto)
	Desc       bool
}

// ListProducts devuelve los productos que cumplen el filtro.
func (s *Service) ListProducts(f ProductFilter) []entity.Product {
	s.mu.RLock()
	all := s.sortedProductsLocked()
	s.mu.RUnlock()

	out := make([]entity.Product, 0, len(all))
	for _, p := range all {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.LocationID != "" && p.LocationID != f.LocationID {
			continue
		}
		if f.Search != "" && !matchesSearch(p, f.Search) {
			continue
		}
		out = append(out, p)
	}
	if f.Sort != "" {
		sortProducts(out, f.Sort, f.Desc)
	}
	return out
}

// Warehouse devuelve la vista de bodega: solo productos en estado InStock.
func (s *Service) Warehouse(f ProductFilter) []entity.Product {
	f.Status = entity.StatusInStock
	return s.ListProducts(f)
}

// Product devuelve un producto por ID.
func (s *Service) Product(id string) (entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.productByID[id]
	if !ok {
		return entity.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// ProductByBarcode resuelve un escaneo de código de barras.
func (s *Service) ProductByBarcode(code string) (entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.productByID {
		if p.Barcode == code {
			return p, nil
		}
	}
	return entity.Product{}, domain.ErrNotFound
}

// ListMovements devuelve los movimientos (más recientes primero), opcionalmente de un producto.
func (s *Service) ListMovements(productID string) []entity.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedMovementsLocked(productID)
}

// Movement devuelve un movimiento por ID.
func (s *Service) Movement(id string) (entity.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movementByID[id]
	if !ok {
		return entity.Movement{}, domain.ErrNotFound
	}
	return m, nil
}

// Categories devuelve las categorías ordenadas por nombre.
func (s *Service) Categories() []entity.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCategoriesLocked()
}

// Locations devuelve las ubicaciones ordenadas por nombre.
func (s *Service) Locations() []entity.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocationsLocked()
}

// CategoryByName busca una categoría por nombre (sin distinguir mayúsculas ni diacríticos).
func (s *Service) CategoryByName(name string) (entity.Category, bool) {
	key := textnorm.Key(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categoryByID {
		if textnorm.Key(c.Name) == key {
			return c, true
		}
	}
	return entity.Category{}, false
}

// LocationByName busca una ubicación por nombre.
func (s *Service) LocationByName(name string) (entity.Location, bool) {
	key := textnorm.Key(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.locationByID {
		if textnorm.Key(l.Name) == key {
			return l, true
		}
	}
	return entity.Location{}, false
}

// mutate ejecuta fn con el candado de escritura y, si termina bien, publica los eventos
// e invalida cachés derivadas fuera del candado.
func (s *Service) mutate(ctx context.Context, fn func() ([]LedgerEvent, error)) error {
	events, err := s.apply(fn)
	if err != nil {
		return err
	}
	if err := s.notifier.Bump(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
	for _, ev := range events {
		s.metrics.LedgerOperation(ev.Kind, ev.MovementType)
	}
	if len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.log.Warn().Err(err).Int("events", len(events)).Msg("no se pudieron publicar eventos del libro")
		}
	}
	return nil
}

// apply corre fn con el candado de escritura; un panic dentro de fn no deja el candado tomado.
func (s *Service) apply(fn func() ([]LedgerEvent, error)) ([]LedgerEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Service) sortedProductsLocked() []entity.Product {
	out := make([]entity.Product, 0, len(s.productByID))
	for _, p := range s.productByID {
		out = append(out, p)
	}
	sortProducts(out, "", true)
	return out
}

func (s *Service) sortedMovementsLocked(productID string) []entity.Movement {
	out := make([]entity.Movement, 0, len(s.movementByID))
	for _, m := range s.movementByID {
		if productID != "" && m.ProductID != productID {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Service) sortedCategoriesLocked() []entity.Category {
	out := make([]entity.Category, 0, len(s.categoryByID))
	for _, c := range s.categoryByID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return textnorm.Key(out[i].Name) < textnorm.Key(out[j].Name) })
	return out
}

func (s *Service) sortedLocationsLocked() []entity.Location {
	out := make([]entity.Location, 0, len(s.locationByID))
	for _, l := range s.locationByID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return textnorm.Key(out[i].Name) < textnorm.Key(out[j].Name) })
	return out
}

func matchesSearch(p entity.Product, q string) bool {
	return textnorm.Contains(p.Name, q) ||
		textnorm.Contains(p.Brand, q) ||
		textnorm.Contains(p.Model, q) ||
		textnorm.Contains(p.SerialNumber, q) ||
		textnorm.Contains(p.Barcode, q)
}

func sortProducts(list []entity.Product, by string, desc bool) {
	less := func(a, b entity.Product) bool {
		switch by {
		case "name":
			return textnorm.Key(a.Name) < textnorm.Key(b.Name)
		case "quantity":
			return a.Quantity < b.Quantity
		default:
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}
