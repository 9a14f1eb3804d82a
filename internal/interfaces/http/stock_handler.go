package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/dto"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/inventory"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del ledger de materias primas.
type StockHandler struct {
	uc      *inventory.StockUseCase
	catalog *catalog.Catalog
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, cat *catalog.Catalog) *StockHandler {
	return &StockHandler{uc: uc, catalog: cat}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "material_name, quantity, reference (opcional)"
// @Success      200   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	return h.stockIn(c, entity.MovementTypeEntradaAPI)
}

// StockInForm registra una entrada manual desde el formulario del panel
// (campos form-urlencoded, tipo de movimiento "entrada").
func (h *StockHandler) StockInForm(c *fiber.Ctx) error {
	return h.stockIn(c, entity.MovementTypeEntrada)
}

func (h *StockHandler) stockIn(c *fiber.Ctx, movType string) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.MaterialName == "" || in.Quantity.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "material_name y quantity > 0 requeridos"})
	}
	matID, ok := h.catalog.ResolveMaterialID(in.MaterialName)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_MATERIAL", Message: "nombre de material no reconocido"})
	}

	m, err := h.uc.ApplyDelta(c.Context(), matID, in.Quantity, movType, in.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrMaterialNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "material no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error registrando entrada"})
	}
	return c.JSON(dto.StockInResponse{MaterialID: m.ID, NewQuantity: m.Quantity, Low: m.Low})
}

// GetMaterial godoc
// @Summary      Consultar un material
// @Tags         stock
// @Produce      json
// @Param        id  path  string  true  "id del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetMaterial(c *fiber.Ctx) error {
	m, err := h.uc.GetMaterial(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMaterialNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "material no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error consultando material"})
	}
	return c.JSON(dto.NewMaterialResponse(m))
}

// ListMaterials godoc
// @Summary      Listar materiales
// @Tags         stock
// @Produce      json
// @Param        below_threshold  query  bool  false  "solo materiales en alerta de stock bajo"
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListMaterials(c *fiber.Ctx) error {
	onlyLow := c.QueryBool("below_threshold", false)
	materials, err := h.uc.ListMaterials(c.Context(), onlyLow)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error listando materiales"})
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.NewMaterialResponse(m))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un material
// @Tags         stock
// @Produce      json
// @Param        id      path   string  true   "id del material"
// @Param        limit   query  int     false  "máximo de movimientos (default 50)"
// @Param        offset  query  int     false  "desplazamiento de paginación"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	movements, err := h.uc.ListMovements(c.Context(), c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		if errors.Is(err, domain.ErrMaterialNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "material no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error listando movimientos"})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, mv := range movements {
		out = append(out, dto.NewMovementResponse(mv))
	}
	return c.JSON(out)
}

// ListMaterialNames devuelve los nombres del catálogo (para el formulario de entrada).
func (h *StockHandler) ListMaterialNames(c *fiber.Ctx) error {
	return c.JSON(h.catalog.MaterialNames())
}
