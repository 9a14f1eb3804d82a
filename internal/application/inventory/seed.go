package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// SeedCatalog crea una fila por entrada del catálogo sin tocar las cantidades
// de materiales ya existentes: reiniciar el proceso con el mismo catálogo no
// duplica filas ni resetea stock.
func SeedCatalog(ctx context.Context, repo repository.MaterialRepository, cat *catalog.Catalog, defaultThreshold int) error {
	for _, name := range cat.MaterialNames() {
		id, _ := cat.ResolveMaterialID(name)
		m := &entity.Material{
			ID:           id,
			Name:         name,
			Quantity:     decimal.Zero,
			LowThreshold: defaultThreshold,
		}
		m.RecomputeLow()
		if err := repo.EnsureExists(ctx, m); err != nil {
			return fmt.Errorf("seed material %q: %w", name, err)
		}
	}
	return nil
}
