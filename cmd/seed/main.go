// seed carga una planilla .xlsx de equipos en el almacén configurado.
// Crea primero las categorías y ubicaciones que la planilla nombra y no existen.
//
// Uso: go run ./cmd/seed [ruta/planilla.xlsx]
// Por defecto busca equipos.xlsx en el directorio actual.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/datastore"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/excel"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

func main() {
	path := "equipos.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir planilla: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := excel.ReadProducts(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer planilla: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repos, closeStore, err := datastore.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacén: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := inventory.NewService(inventory.Deps{
		TxRunner:   repos.TxRunner,
		Products:   repos.Products,
		Movements:  repos.Movements,
		Categories: repos.Categories,
		Locations:  repos.Locations,
		Logger:     log,
	})
	if err := svc.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Cargar inventario: %v\n", err)
		os.Exit(1)
	}

	if err := ensureCatalog(ctx, svc, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Crear catálogo: %v\n", err)
		os.Exit(1)
	}

	res := svc.ImportProducts(ctx, rows)
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "fila %d: %s\n", e.Row, e.Message)
	}
	fmt.Printf("Filas: %d, productos creados: %d, errores: %d\n", res.Rows, res.Created, len(res.Errors))
	if len(res.Errors) > 0 {
		os.Exit(2)
	}
}

// ensureCatalog crea las categorías y ubicaciones de la planilla que aún no existen.
func ensureCatalog(ctx context.Context, svc *inventory.Service, rows []inventory.ImportRow) error {
	for _, r := range rows {
		if name := strings.TrimSpace(r.Category); name != "" {
			if _, ok := svc.CategoryByName(name); !ok {
				if _, err := svc.AddCategory(ctx, name); err != nil {
					return fmt.Errorf("categoría %q: %w", name, err)
				}
			}
		}
		if name := strings.TrimSpace(r.Location); name != "" {
			if _, ok := svc.LocationByName(name); !ok {
				if _, err := svc.AddLocation(ctx, name, ""); err != nil {
					return fmt.Errorf("ubicación %q: %w", name, err)
				}
			}
		}
	}
	return nil
}
