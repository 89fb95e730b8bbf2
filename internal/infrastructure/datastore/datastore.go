// Package datastore abre el almacén elegido con DATA_BACKEND y expone sus repositorios.
package datastore

import (
	"context"
	"fmt"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/supabase"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// Repositories repositorios de un backend más su TxRunner.
type Repositories struct {
	Backend    string
	TxRunner   inventory.TxRunner
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
	Locations  repository.LocationRepository
	Users      repository.UserRepository
}

// Open conecta con el backend configurado. La función devuelta libera las conexiones.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		log.Info().Int32("max_conns", pool.Config().MaxConns).Msg("conectado a PostgreSQL")
		return &Repositories{
			Backend:    cfg.Backend,
			TxRunner:   postgres.NewTxRunner(pool),
			Products:   postgres.NewProductRepository(pool),
			Movements:  postgres.NewMovementRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Locations:  postgres.NewLocationRepository(pool),
			Users:      postgres.NewUserRepository(pool),
		}, pool.Close, nil

	case config.BackendSupabase:
		client, err := supabase.NewClient(cfg.Supabase)
		if err != nil {
			return nil, nil, fmt.Errorf("cliente Supabase: %w", err)
		}
		log.Warn().Msg("backend Supabase: las operaciones de varias escrituras no son atómicas")
		return &Repositories{
			Backend:    cfg.Backend,
			TxRunner:   supabase.NewTxRunner(client),
			Products:   supabase.NewProductRepository(client),
			Movements:  supabase.NewMovementRepository(client),
			Categories: supabase.NewCategoryRepository(client),
			Locations:  supabase.NewLocationRepository(client),
			Users:      supabase.NewUserRepository(client),
		}, func() {}, nil

	case config.BackendMemory:
		store := memory.NewStore()
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		return &Repositories{
			Backend:    cfg.Backend,
			TxRunner:   memory.NewTxRunner(store),
			Products:   store.Products(),
			Movements:  store.Movements(),
			Categories: store.Categories(),
			Locations:  store.Locations(),
			Users:      store.Users(),
		}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("DATA_BACKEND desconocido %q", cfg.Backend)
}
