package entity

import "github.com/shopspring/decimal"

// Shortage describe un material que no alcanza a cubrir un pedido.
type Shortage struct {
	MaterialID string
	Needed     decimal.Decimal
	Available  decimal.Decimal
}
