package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Equipos-api/internal/application/report"
)

// ReportHandler maneja los endpoints de reportes.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary devuelve el resumen del inventario.
// GET /api/reports/summary
//
// Respuesta: ReportSummaryDTO (totales, conteo por estado con porcentaje, por categoría,
// por ubicación, totales de movimientos y los 20 más recientes).
// Se sirve desde Redis mientras ninguna mutación invalide la versión de caché.
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
