package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// StockInRequest entrada de stock vía API o formulario.
type StockInRequest struct {
	MaterialName string          `json:"material_name" form:"material_name"`
	Quantity     decimal.Decimal `json:"quantity" form:"quantity"`
	Reference    string          `json:"reference" form:"reference"`
}

// MaterialResponse lectura de un material.
type MaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Low       bool            `json:"low"`
	Threshold int             `json:"threshold"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewMaterialResponse mapea la entidad al DTO de salida.
func NewMaterialResponse(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		Low:       m.Low,
		Threshold: m.LowThreshold,
		UpdatedAt: m.UpdatedAt,
	}
}

// StockInResponse resultado de una entrada de stock.
type StockInResponse struct {
	MaterialID  string          `json:"material_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Low         bool            `json:"low"`
}

// MovementResponse lectura de un movimiento del ledger.
type MovementResponse struct {
	ID        int64           `json:"id"`
	Delta     decimal.Decimal `json:"delta"`
	Type      string          `json:"type"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMovementResponse mapea la entidad al DTO de salida.
func NewMovementResponse(mv *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        mv.ID,
		Delta:     mv.Delta,
		Type:      mv.Type,
		Reference: mv.Reference,
		CreatedAt: mv.CreatedAt,
	}
}

// ErrorResponse respuesta de error uniforme.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
