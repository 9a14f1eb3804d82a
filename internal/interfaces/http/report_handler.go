package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/dto"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
)

// ReportHandler genera el snapshot de reportes bajo demanda.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar snapshot de reportes
// @Description  Escribe la hoja de cálculo, el gráfico top-20 y el resumen PDF
//               en el directorio de exportación, y devuelve sus nombres.
//               Los archivos se descargan desde /exports/{nombre}.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/generate [get]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	files, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando reportes"})
	}
	return c.JSON(fiber.Map{
		"excel":   files.Spreadsheet,
		"chart":   files.Chart,
		"resumen": files.Summary,
	})
}
