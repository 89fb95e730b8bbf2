package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/jobs"
)

// UserDirectory traduce IDs de usuario a nombres (lo implementa *auth.AuthUseCase).
type UserDirectory interface {
	UserNames(ctx context.Context) (map[string]string, error)
}

// AuditEnqueuer encola auditorías en el worker (lo implementa *jobs.Client).
type AuditEnqueuer interface {
	EnqueueLedgerAudit(ctx context.Context, trigger string) (*asynq.TaskInfo, error)
}

// InventoryHandler movimientos del libro y operaciones sobre la caché del inventario.
type InventoryHandler struct {
	svc    *inventory.Service
	users  UserDirectory
	audits AuditEnqueuer // nil = la auditoría corre dentro de la petición
}

// NewInventoryHandler construye el handler. audits puede ser nil.
func NewInventoryHandler(svc *inventory.Service, users UserDirectory, audits AuditEnqueuer) *InventoryHandler {
	return &InventoryHandler{svc: svc, users: users, audits: audits}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento (entrada / salida)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, type, quantity, location_id"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	res, err := h.svc.AddMovement(c.UserContext(), inventory.AddMovementInput{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		LocationID:  in.LocationID,
		Description: in.Description,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.result(*res, GetUsername(c)))
}

// BulkMovement godoc
// @Summary      Mismo movimiento para varios productos
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkMovementRequest  true  "product_ids, type, quantity, location_id"
// @Success      201   {array}   dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/bulk [post]
func (h *InventoryHandler) BulkMovement(c *fiber.Ctx) error {
	var in dto.BulkMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	results, err := h.svc.AddMovements(c.UserContext(), inventory.BulkMovementInput{
		ProductIDs:  in.ProductIDs,
		Type:        in.Type,
		Quantity:    in.Quantity,
		LocationID:  in.LocationID,
		Description: in.Description,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, h.result(r, GetUsername(c)))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateMovement godoc
// @Summary      Editar movimiento (revierte el efecto anterior y aplica el nuevo)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *InventoryHandler) UpdateMovement(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	res, err := h.svc.UpdateMovement(c.UserContext(), c.Params("id"), inventory.UpdateMovementInput{
		Type:        in.Type,
		Quantity:    in.Quantity,
		LocationID:  in.LocationID,
		Description: in.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	names, _ := h.userNames(c.UserContext())
	return c.JSON(h.result(*res, names[res.Movement.UserID]))
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento (revierte su efecto)
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.svc.RemoveMovement(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDeleteMovements godoc
// @Summary      Eliminar varios movimientos
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.IDsRequest  true  "IDs"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/bulk-delete [post]
func (h *InventoryHandler) BulkDeleteMovements(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemoveMovements(c.UserContext(), in.IDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	return h.listMovements(c, c.Query("product_id"))
}

// ProductMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.svc.Product(id); err != nil {
		return respondError(c, err)
	}
	return h.listMovements(c, id)
}

// ExportMovements godoc
// @Summary      Exportar movimientos a Excel
// @Tags         movements
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Success      200
// @Router       /api/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	names, err := h.userNames(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendTable(c, h.svc.MovementTable(c.Query("product_id"), names), "hareketler")
}

// Refresh godoc
// @Summary      Recargar el inventario desde el almacén
// @Tags         inventory
// @Security     Bearer
// @Success      204
// @Router       /api/inventory/refresh [post]
func (h *InventoryHandler) Refresh(c *fiber.Ctx) error {
	if err := h.svc.Refresh(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Auditar cantidades contra el libro de movimientos
// @Description  Con ?async=true y worker configurado, encola la auditoría y responde 202.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        async  query  bool  false  "Encolar en el worker"
// @Success      200  {object}  dto.AuditReportDTO
// @Success      202  {object}  map[string]string
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	if c.QueryBool("async", false) && h.audits != nil {
		info, err := h.audits.EnqueueLedgerAudit(c.UserContext(), jobs.TriggerManual)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": info.ID, "queue": info.Queue})
	}
	report, err := h.svc.Audit(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(auditResponse(report))
}

func (h *InventoryHandler) listMovements(c *fiber.Ctx, productID string) error {
	names, err := h.userNames(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	items := h.svc.ListMovements(productID)
	idx := newNameIndex(h.svc)
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, page.Limit),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}
	for _, m := range paginate(items, page) {
		p, _ := h.svc.Product(m.ProductID)
		resp := dto.NewMovementResponse(m, p, idx.locations[m.LocationID])
		resp.Username = names[m.UserID]
		out.Items = append(out.Items, resp)
	}
	return c.JSON(out)
}

func (h *InventoryHandler) result(r inventory.MovementResult, username string) dto.MovementResultResponse {
	idx := newNameIndex(h.svc)
	mov := dto.NewMovementResponse(r.Movement, r.Product, idx.locations[r.Movement.LocationID])
	mov.Username = username
	return dto.MovementResultResponse{Movement: mov, Product: idx.product(r.Product)}
}

func (h *InventoryHandler) userNames(ctx context.Context) (map[string]string, error) {
	if h.users == nil {
		return map[string]string{}, nil
	}
	return h.users.UserNames(ctx)
}

func auditResponse(r inventory.AuditReport) dto.AuditReportDTO {
	out := dto.AuditReportDTO{
		CheckedAt: r.CheckedAt,
		Products:  r.Products,
		Movements: r.Movements,
		Drifts:    make([]dto.DriftDTO, 0, len(r.Drifts)),
	}
	for _, d := range r.Drifts {
		out.Drifts = append(out.Drifts, dto.DriftDTO{
			ProductID: d.ProductID,
			Name:      d.Name,
			Barcode:   d.Barcode,
			Recorded:  d.Recorded,
			Expected:  d.Expected,
			Diff:      d.Diff,
		})
	}
	return out
}
