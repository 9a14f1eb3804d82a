package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/dto"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/orders"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// PedidoHandler maneja el webhook de PedidosOK y los pedidos por formulario.
type PedidoHandler struct {
	uc      *orders.ReconcileUseCase
	queue   *orders.Queue
	catalog *catalog.Catalog
	async   bool
}

// NewPedidoHandler construye el handler. Con async=true el webhook encola el
// pedido y responde 202 antes de debitar; queue puede ser nil en modo síncrono.
func NewPedidoHandler(uc *orders.ReconcileUseCase, queue *orders.Queue, cat *catalog.Catalog, async bool) *PedidoHandler {
	return &PedidoHandler{uc: uc, queue: queue, catalog: cat, async: async}
}

// Webhook godoc
// @Summary      Webhook de pedidos PedidosOK
// @Description  Expande el pedido por la ficha técnica y debita las materias
//               primas. En modo asíncrono responde 202 antes de debitar: el
//               acknowledgement NO implica consistencia del ledger.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        X-Token  header  string  false  "shared secret del webhook"
// @Param        body  body  dto.PedidoRequest  true  "id y líneas del pedido"
// @Success      200  {object}  dto.PedidoResultResponse
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /webhook/pedidook [post]
func (h *PedidoHandler) Webhook(c *fiber.Ctx) error {
	var in dto.PedidoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formato de payload inválido"})
	}
	if in.ID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id e items requeridos"})
	}

	order := in.ToOrder(entity.MovementTypePedido)

	if h.async {
		if _, err := h.queue.Enqueue(order); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "QUEUE_UNAVAILABLE", Message: "no se pudo encolar el pedido"})
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted", "pedido_id": in.ID})
	}

	result, err := h.uc.Reconcile(c.Context(), order)
	return h.respondResult(c, result, err)
}

// PedidoForm procesa un pedido de una sola línea desde el formulario del panel.
// Misma conciliación que el webhook, tipo de movimiento "pedido-form", siempre síncrono.
func (h *PedidoHandler) PedidoForm(c *fiber.Ctx) error {
	var in dto.PedidoFormRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido"})
	}
	if in.PedidoID == "" || in.SKU == "" || in.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pedido_id, sku y quantity >= 1 requeridos"})
	}

	order := orders.Order{
		ID:           in.PedidoID,
		Lines:        []orders.Line{{SKU: in.SKU, Quantity: in.Quantity}},
		MovementType: entity.MovementTypePedidoForm,
	}
	result, err := h.uc.Reconcile(c.Context(), order)
	return h.respondResult(c, result, err)
}

// ListSKUs devuelve los SKUs con ficha técnica (para el formulario de pedidos).
func (h *PedidoHandler) ListSKUs(c *fiber.Ctx) error {
	return c.JSON(h.catalog.SKUs())
}

// respondResult mapea el resultado de la conciliación a la respuesta HTTP.
func (h *PedidoHandler) respondResult(c *fiber.Ctx, result *orders.Result, err error) error {
	switch {
	case err == nil:
		return c.JSON(dto.PedidoResultResponse{Status: "ok", PedidoID: result.OrderID, Debited: result.Debited})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.NewInsufficientStockResponse(result.Shortages))
	case errors.Is(err, domain.ErrSKUNotFound), errors.Is(err, domain.ErrMaterialNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_SKU", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pedido inválido"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error procesando pedido"})
	}
}
