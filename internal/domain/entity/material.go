package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima del catálogo con su cantidad actual.
// Se crea una sola vez por entrada del catálogo (seed idempotente) y solo se
// muta a través del servicio de movimientos; nunca se elimina.
type Material struct {
	ID           string
	Name         string
	Quantity     decimal.Decimal
	LowThreshold int  // umbral de alerta de stock bajo
	Low          bool // derivado: Quantity <= LowThreshold; se recalcula en cada mutación
	UpdatedAt    time.Time
}

// RecomputeLow recalcula la bandera de stock bajo a partir de la cantidad actual.
// Debe invocarse dentro de la misma transacción que cambió Quantity.
func (m *Material) RecomputeLow() {
	m.Low = m.Quantity.LessThanOrEqual(decimal.NewFromInt(int64(m.LowThreshold)))
}
