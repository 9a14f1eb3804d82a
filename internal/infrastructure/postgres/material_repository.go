package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = "id, name, quantity, low_threshold, low, updated_at"

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Name, &m.Quantity, &m.LowThreshold, &m.Low, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}

// GetByID obtiene un material por id.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return scanMaterial(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene el material y bloquea la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	return scanMaterial(r.q.QueryRow(ctx, query, id))
}

// List devuelve los materiales en orden de nombre; onlyLow filtra por la bandera low.
func (r *MaterialRepo) List(ctx context.Context, onlyLow bool) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials`
	if onlyLow {
		query += ` WHERE low = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Quantity, &m.LowThreshold, &m.Low, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Save persiste cantidad, bandera low y updated_at de un material existente.
func (r *MaterialRepo) Save(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET quantity = $2, low = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Quantity, m.Low, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

// EnsureExists crea el material si no existe; nunca sobreescribe uno ya creado.
func (r *MaterialRepo) EnsureExists(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (id, name, quantity, low_threshold, low, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, m.ID, m.Name, m.Quantity, m.LowThreshold, m.Low)
	if err != nil {
		return fmt.Errorf("ensure material: %w", err)
	}
	return nil
}
