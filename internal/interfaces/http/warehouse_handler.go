package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
)

// WarehouseHandler vista de bodega: productos en estado InStock.
type WarehouseHandler struct {
	svc *inventory.Service
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(svc *inventory.Service) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// List godoc
// @Summary      Productos en bodega
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Texto a buscar"
// @Param        category_id  query  string  false  "Categoría"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/warehouse [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	return listProducts(c, h.svc, h.svc.Warehouse)
}
