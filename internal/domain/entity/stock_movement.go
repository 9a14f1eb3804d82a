package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeEntrada    = "entrada"     // entrada manual por formulario
	MovementTypeEntradaAPI = "entrada-api" // entrada vía API JSON
	MovementTypePedido     = "pedido"      // débito por pedido (webhook)
	MovementTypePedidoForm = "pedido-form" // débito por pedido (formulario)
)

// StockMovement es una fila del ledger append-only: nunca se actualiza ni se
// borra después de creada. Delta positivo = entrada, negativo = salida.
type StockMovement struct {
	ID         int64 // bigserial
	MaterialID string
	Delta      decimal.Decimal
	Type       string
	Reference  string // id de pedido, nota, etc. (opcional)
	CreatedAt  time.Time
}
