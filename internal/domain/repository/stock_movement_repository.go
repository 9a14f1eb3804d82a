package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, mv *entity.StockMovement) error
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumDeltas suma todos los deltas registrados para un material. Debe
	// coincidir con la cantidad actual (invariante de replay del ledger).
	SumDeltas(ctx context.Context, materialID string) (decimal.Decimal, error)
}
