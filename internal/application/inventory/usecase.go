package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// StockUseCase es el servicio de mutación del ledger. ApplyDelta es la única
// primitiva de escritura: toda entrada y toda salida pasa por aquí como un
// delta con signo, con su movimiento correspondiente en la misma transacción.
type StockUseCase struct {
	txRunner TxRunner
	matRepo  repository.MaterialRepository
	movRepo  repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, matRepo repository.MaterialRepository, movRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, matRepo: matRepo, movRepo: movRepo}
}

// GetMaterial devuelve un material por id (lectura fuera de transacción).
func (uc *StockUseCase) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	return uc.matRepo.GetByID(ctx, id)
}

// ListMaterials lista los materiales; onlyLow filtra los que están en o por
// debajo de su umbral de alerta.
func (uc *StockUseCase) ListMaterials(ctx context.Context, onlyLow bool) ([]*entity.Material, error) {
	return uc.matRepo.List(ctx, onlyLow)
}

// ListMovements devuelve el historial de movimientos de un material, más
// recientes primero. Verifica primero que el material exista para distinguir
// "sin movimientos" de "material desconocido".
func (uc *StockUseCase) ListMovements(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.matRepo.GetByID(ctx, materialID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByMaterial(ctx, materialID, limit, offset)
}

// ApplyDelta aplica un delta con signo a un material dentro de una transacción:
// bloquea la fila, suma el delta, recalcula la bandera low y registra el
// movimiento. Esta capa no impone cota inferior a la cantidad; la suficiencia
// es responsabilidad del caller (motor de pedidos).
func (uc *StockUseCase) ApplyDelta(ctx context.Context, materialID string, delta decimal.Decimal, movType, reference string) (*entity.Material, error) {
	var updated *entity.Material
	err := uc.txRunner.Run(ctx, func(
		matRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error {
		m, err := ApplyDeltaInTx(ctx, matRepo, movRepo, materialID, delta, movType, reference, time.Now().UTC())
		if err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyDeltaInTx ejecuta la mutación usando repositorios ya atados a la
// transacción del caller. El motor de pedidos la invoca una vez por material
// dentro de su propia transacción para que el débito completo sea atómico.
func ApplyDeltaInTx(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
	materialID string,
	delta decimal.Decimal,
	movType, reference string,
	now time.Time,
) (*entity.Material, error) {
	// Bloquea la fila del material (SELECT FOR UPDATE)
	m, err := matRepo.GetForUpdate(ctx, materialID)
	if err != nil {
		return nil, err
	}
	m.Quantity = m.Quantity.Add(delta)
	m.RecomputeLow()
	m.UpdatedAt = now
	if err := matRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	mv := &entity.StockMovement{
		MaterialID: materialID,
		Delta:      delta,
		Type:       movType,
		Reference:  reference,
		CreatedAt:  now,
	}
	if err := movRepo.Create(ctx, mv); err != nil {
		return nil, err
	}
	return m, nil
}
