package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/application/labels"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC             *auth.AuthUseCase
	Inventory          *inventory.Service
	ReportUC           *report.ReportUseCase
	LabelsUC           *labels.LabelsUseCase
	Audits             AuditEnqueuer // opcional
	JWTSecret          string
	LoginRatePerMinute int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", LoginRateLimit(deps.LoginRatePerMinute), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleUser))
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/profile", authHandler.UpdateProfile)

	// Usuarios (admin)
	protected.Get("/users", adminOnly, authHandler.ListUsers)
	protected.Post("/users", adminOnly, authHandler.CreateUser)

	// Categorías y ubicaciones
	catalogHandler := NewCatalogHandler(deps.Inventory)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Post("/categories", adminOnly, catalogHandler.CreateCategory)
	protected.Delete("/categories/:id", adminOnly, catalogHandler.DeleteCategory)
	protected.Get("/locations", catalogHandler.ListLocations)
	protected.Post("/locations", adminOnly, catalogHandler.CreateLocation)
	protected.Delete("/locations/:id", adminOnly, catalogHandler.DeleteLocation)

	// Productos. Las rutas fijas van antes de /:id.
	productHandler := NewProductHandler(deps.Inventory)
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.AuthUC, deps.Audits)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/export", productHandler.Export)
	products.Post("/import", adminOnly, productHandler.Import)
	products.Post("/bulk-delete", productHandler.BulkDelete)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movements", inventoryHandler.ProductMovements)

	// Bodega
	protected.Get("/warehouse", NewWarehouseHandler(deps.Inventory).List)

	// Movimientos
	movements := protected.Group("/movements")
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/export", inventoryHandler.ExportMovements)
	movements.Post("/bulk", inventoryHandler.BulkMovement)
	movements.Post("/bulk-delete", inventoryHandler.BulkDeleteMovements)
	movements.Put("/:id", inventoryHandler.UpdateMovement)
	movements.Delete("/:id", inventoryHandler.DeleteMovement)

	// Códigos de barras y etiquetas
	barcodeHandler := NewBarcodeHandler(deps.Inventory, deps.LabelsUC)
	protected.Post("/barcodes", barcodeHandler.New)
	protected.Post("/barcodes/labels", barcodeHandler.Labels)

	// Reportes
	protected.Get("/reports/summary", NewReportHandler(deps.ReportUC).Summary)

	// Caché del inventario
	protected.Post("/inventory/refresh", inventoryHandler.Refresh)
	protected.Post("/inventory/reconcile", adminOnly, inventoryHandler.Reconcile)
}
