package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las dos tablas del ledger si no existen. No hay tooling
// de migraciones: el esquema es estable y se materializa al arranque.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS materials (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		quantity      NUMERIC NOT NULL DEFAULT 0,
		low_threshold INTEGER NOT NULL DEFAULT 5,
		low           BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS stock_movements (
		id          BIGSERIAL PRIMARY KEY,
		material_id TEXT NOT NULL REFERENCES materials(id),
		delta       NUMERIC NOT NULL,
		type        TEXT NOT NULL,
		reference   TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_stock_movements_material
		ON stock_movements (material_id, created_at);`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
