package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/application/labels"
)

// BarcodeHandler generación de códigos y etiquetas imprimibles.
type BarcodeHandler struct {
	svc    *inventory.Service
	labels *labels.LabelsUseCase
}

// NewBarcodeHandler construye el handler.
func NewBarcodeHandler(svc *inventory.Service, labelsUC *labels.LabelsUseCase) *BarcodeHandler {
	return &BarcodeHandler{svc: svc, labels: labelsUC}
}

// New godoc
// @Summary      Generar un código de barras libre
// @Tags         barcodes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BarcodeResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/barcodes [post]
func (h *BarcodeHandler) New(c *fiber.Ctx) error {
	code, err := h.svc.NewBarcode(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BarcodeResponse{Barcode: code})
}

// Labels godoc
// @Summary      PDF de etiquetas con código de barras
// @Tags         barcodes
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.LabelsRequest  true  "Productos"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcodes/labels [post]
func (h *BarcodeHandler) Labels(c *fiber.Ctx) error {
	var in dto.LabelsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	pdf, err := h.labels.Generate(c.UserContext(), in.ProductIDs)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "etiquetas_"+time.Now().Format("2006-01-02")+".pdf"))
	return c.Send(pdf)
}
