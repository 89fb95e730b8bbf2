package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/excel"
)

// ProductHandler maneja las peticiones HTTP para productos (protegido).
type ProductHandler struct {
	svc *inventory.Service
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *inventory.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary      Crear productos (una fila por unidad)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {array}   dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	created, err := h.svc.CreateProducts(c.UserContext(), inventory.CreateProductInput{
		Name:         in.Name,
		Brand:        in.Brand,
		Model:        in.Model,
		CategoryID:   in.CategoryID,
		Status:       in.Status,
		LocationID:   in.LocationID,
		SerialNumber: in.SerialNumber,
		Description:  in.Description,
		Barcode:      in.Barcode,
		Quantity:     in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	names := newNameIndex(h.svc)
	out := make([]dto.ProductResponse, 0, len(created))
	for _, p := range created {
		out = append(out, names.product(p))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.svc.Product(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newNameIndex(h.svc).product(p))
}

// GetByBarcode godoc
// @Summary      Buscar producto por código de barras (escáner)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de barras"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{code} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	p, err := h.svc.ProductByBarcode(c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newNameIndex(h.svc).product(p))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Nombre, marca, modelo, serie o código"
// @Param        category_id  query  string  false  "Categoría"
// @Param        status       query  string  false  "Estado"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        sort         query  string  false  "name | quantity | created_at"
// @Param        desc         query  bool    false  "Orden descendente"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return listProducts(c, h.svc, h.svc.ListProducts)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	p, err := h.svc.UpdateProduct(c.UserContext(), c.Params("id"), inventory.UpdateProductInput{
		Name:         in.Name,
		Brand:        in.Brand,
		Model:        in.Model,
		CategoryID:   in.CategoryID,
		Status:       in.Status,
		LocationID:   in.LocationID,
		SerialNumber: in.SerialNumber,
		Description:  in.Description,
		Barcode:      in.Barcode,
		Quantity:     in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newNameIndex(h.svc).product(*p))
}

// Delete godoc
// @Summary      Eliminar producto y sus movimientos
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDelete godoc
// @Summary      Eliminar varios productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.IDsRequest  true  "IDs"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/bulk-delete [post]
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteProducts(c.UserContext(), in.IDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar productos desde Excel
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla .xlsx"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, badRequest("MISSING_FILE", "se requiere el archivo en el campo 'file'"))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	rows, err := excel.ReadProducts(f)
	if err != nil {
		return respondError(c, badRequest("INVALID_FILE", err.Error()))
	}
	res := h.svc.ImportProducts(c.UserContext(), rows)
	out := dto.ImportResponse{
		Rows:     res.Rows,
		Created:  res.Created,
		Errors:   make([]dto.ImportRowError, 0, len(res.Errors)),
		Barcodes: res.Barcodes,
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, dto.ImportRowError{Row: e.Row, Message: e.Message})
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar productos a Excel
// @Tags         products
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        ids   query  string  false  "IDs separados por coma (vacío = todos)"
// @Param        view  query  string  false  "warehouse = solo en bodega"
// @Success      200
// @Router       /api/products/export [get]
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	onlyInStock := c.Query("view") == "warehouse"
	table := h.svc.ProductTable(queryIDs(c), onlyInStock)
	name := "urunler"
	if onlyInStock {
		name = "depo"
	}
	return sendTable(c, table, name)
}

// listProducts aplica filtros y paginación comunes a productos y bodega.
func listProducts(c *fiber.Ctx, svc *inventory.Service, list func(inventory.ProductFilter) []entity.Product) error {
	filter := inventory.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		Status:     c.Query("status"),
		LocationID: c.Query("location_id"),
		Sort:       c.Query("sort"),
		Desc:       c.QueryBool("desc", false),
	}
	page := pageFromQuery(c)
	items := list(filter)
	names := newNameIndex(svc)
	out := dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, page.Limit),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}
	for _, p := range paginate(items, page) {
		out.Items = append(out.Items, names.product(p))
	}
	return c.JSON(out)
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	return page
}

func paginate[T any](items []T, page dto.PageRequest) []T {
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

// sendTable responde la tabla como adjunto .xlsx.
func sendTable(c *fiber.Ctx, table inventory.Table, name string) error {
	var buf bytes.Buffer
	if err := excel.WriteTable(&buf, table); err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, excel.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

// nameIndex resuelve nombres de categoría y ubicación para las respuestas.
type nameIndex struct {
	categories map[string]string
	locations  map[string]string
}

func newNameIndex(svc *inventory.Service) nameIndex {
	idx := nameIndex{categories: map[string]string{}, locations: map[string]string{}}
	for _, c := range svc.Categories() {
		idx.categories[c.ID] = c.Name
	}
	for _, l := range svc.Locations() {
		idx.locations[l.ID] = l.Name
	}
	return idx
}

func (n nameIndex) product(p entity.Product) dto.ProductResponse {
	return dto.NewProductResponse(p, n.categories[p.CategoryID], n.locations[p.LocationID])
}
