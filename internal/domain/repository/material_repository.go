package repository

import (
	"context"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para materiales.
// El ledger es el único dueño de la tabla; nadie más escribe en ella.
type MaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Usar dentro de transacciones para cerrar la carrera check-then-act.
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	// List devuelve los materiales en orden de nombre. onlyLow filtra los que
	// están en o por debajo de su umbral.
	List(ctx context.Context, onlyLow bool) ([]*entity.Material, error)
	// Save persiste cantidad, bandera low y updated_at de un material existente.
	Save(ctx context.Context, m *entity.Material) error
	// EnsureExists crea el material si no existe, sin tocar la cantidad de uno
	// ya creado (seed idempotente del catálogo).
	EnsureExists(ctx context.Context, m *entity.Material) error
}
