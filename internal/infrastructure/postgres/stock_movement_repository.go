package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger append-only sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee; nunca actualiza ni borra.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento y completa su id autoincremental.
func (r *StockMovementRepo) Create(ctx context.Context, mv *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (material_id, delta, type, reference, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	reference := (*string)(nil)
	if mv.Reference != "" {
		reference = &mv.Reference
	}
	err := r.q.QueryRow(ctx, query, mv.MaterialID, mv.Delta, mv.Type, reference, mv.CreatedAt).Scan(&mv.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByMaterial lista los movimientos de un material, más recientes primero.
func (r *StockMovementRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, material_id, delta, type, reference, created_at
		FROM stock_movements
		WHERE material_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var mv entity.StockMovement
		var reference *string
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Delta, &mv.Type, &reference, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reference != nil {
			mv.Reference = *reference
		}
		list = append(list, &mv)
	}
	return list, rows.Err()
}

// SumDeltas suma todos los deltas de un material (invariante de replay).
func (r *StockMovementRepo) SumDeltas(ctx context.Context, materialID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE material_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}
