// Package supabase implementa los repositorios sobre la API REST (PostgREST) de Supabase.
// Las tablas y columnas son las mismas que usa el backend postgres (migrations/).
package supabase

import (
	"context"
	"fmt"
	"strings"

	supa "github.com/nedpals/supabase-go"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/pkg/config"
)

// Tablas remotas.
const (
	tableProducts   = "products"
	tableMovements  = "movements"
	tableCategories = "categories"
	tableLocations  = "locations"
	tableUsers      = "auth_users"
)

// NewClient crea el cliente Supabase a partir de la configuración.
func NewClient(cfg config.SupabaseConfig) (*supa.Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase: URL y key son requeridos")
	}
	return supa.CreateClient(cfg.URL, cfg.Key), nil
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner PostgREST no expone transacciones de varias sentencias: el callback corre
// directamente contra los repositorios y una falla a mitad deja escrito lo anterior.
type TxRunner struct {
	client *supa.Client
}

// NewTxRunner construye el runner.
func NewTxRunner(client *supa.Client) *TxRunner {
	return &TxRunner{client: client}
}

// Run ejecuta fn sin atomicidad.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(NewProductRepository(r.client), NewMovementRepository(r.client))
}

// wrap traduce errores de PostgREST; 23505 (unique_violation) se mapea a dup.
func wrap(op string, err error, dup error) error {
	if err == nil {
		return nil
	}
	if dup != nil && (strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")) {
		return dup
	}
	return fmt.Errorf("supabase %s: %w", op, err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
