package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/orders"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// PedidoItem línea del webhook de pedidos.
type PedidoItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// PedidoRequest payload del webhook de PedidosOK.
type PedidoRequest struct {
	ID    string       `json:"id"`
	Items []PedidoItem `json:"items"`
}

// ToOrder convierte el payload en la entrada del motor de conciliación.
func (r PedidoRequest) ToOrder(movementType string) orders.Order {
	lines := make([]orders.Line, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, orders.Line{SKU: it.SKU, Quantity: it.Quantity})
	}
	return orders.Order{ID: r.ID, Lines: lines, MovementType: movementType}
}

// PedidoFormRequest pedido de una sola línea desde el formulario.
type PedidoFormRequest struct {
	PedidoID string `json:"pedido_id" form:"pedido_id"`
	SKU      string `json:"sku" form:"sku"`
	Quantity int    `json:"quantity" form:"quantity"`
}

// ShortageDTO detalle de un material faltante.
type ShortageDTO struct {
	MaterialID string          `json:"material_id"`
	Needed     decimal.Decimal `json:"needed"`
	Available  decimal.Decimal `json:"available"`
}

// PedidoResultResponse resultado exitoso de un pedido.
type PedidoResultResponse struct {
	Status   string                     `json:"status"`
	PedidoID string                     `json:"pedido_id"`
	Debited  map[string]decimal.Decimal `json:"debited"`
}

// InsufficientStockResponse resultado de pedido con faltantes: ningún débito aplicado.
type InsufficientStockResponse struct {
	Status  string        `json:"status"`
	Details []ShortageDTO `json:"details"`
}

// NewInsufficientStockResponse mapea los faltantes al DTO de salida.
func NewInsufficientStockResponse(shortages []entity.Shortage) InsufficientStockResponse {
	details := make([]ShortageDTO, 0, len(shortages))
	for _, s := range shortages {
		details = append(details, ShortageDTO{MaterialID: s.MaterialID, Needed: s.Needed, Available: s.Available})
	}
	return InsufficientStockResponse{Status: "insufficient_stock", Details: details}
}
