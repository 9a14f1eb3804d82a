package inventory

import (
	"context"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: Commit si fn retorna
// nil, Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		matRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
