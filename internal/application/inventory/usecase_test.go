package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/inventory"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/infrastructure/memory"
)

func seedMaterial(store *memory.Store, id, name, qty string, threshold int) {
	m := entity.Material{
		ID:           id,
		Name:         name,
		Quantity:     decimal.RequireFromString(qty),
		LowThreshold: threshold,
		UpdatedAt:    time.Now().UTC(),
	}
	m.RecomputeLow()
	store.AddMaterial(m)
}

func newUseCase(store *memory.Store) *inventory.StockUseCase {
	return inventory.NewStockUseCase(
		memory.NewTxRunner(store),
		memory.NewMaterialRepository(store),
		memory.NewStockMovementRepository(store),
	)
}

// Entrada y salida por la misma primitiva: un delta positivo sube la cantidad
// y apaga la alerta, uno negativo la baja y la enciende, cada uno con su
// movimiento correspondiente.
func TestApplyDelta_EntradaYSalida(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(store, "MAT-001", "Empaque de Caucho", "10", 5)
	uc := newUseCase(store)
	ctx := context.Background()

	m, err := uc.ApplyDelta(ctx, "MAT-001", decimal.NewFromInt(5), entity.MovementTypeEntrada, "compra-77")
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(15)))
	assert.False(t, m.Low)

	m, err = uc.ApplyDelta(ctx, "MAT-001", decimal.NewFromInt(-12), entity.MovementTypePedido, "PED-9")
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, m.Low, "3 <= umbral 5 debe encender la alerta en la misma mutación")

	movs := store.Movements()
	require.Len(t, movs, 2)
	assert.True(t, movs[0].Delta.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)
	assert.Equal(t, "compra-77", movs[0].Reference)
	assert.True(t, movs[1].Delta.Equal(decimal.NewFromInt(-12)), "la salida se registra como un único delta negativo")
	assert.Equal(t, entity.MovementTypePedido, movs[1].Type)
}

// Invariante del ledger: la cantidad actual de un material siempre debe ser
// igual a la cantidad inicial más la suma de todos sus deltas.
func TestApplyDelta_LedgerReproduceLaCantidad(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(store, "MAT-001", "Empaque de Caucho", "0", 5)
	uc := newUseCase(store)
	ctx := context.Background()

	deltas := []string{"10", "-3.5", "7.25", "-0.75", "-4"}
	for _, d := range deltas {
		_, err := uc.ApplyDelta(ctx, "MAT-001", decimal.RequireFromString(d), entity.MovementTypeEntrada, "")
		require.NoError(t, err)
	}

	sum, err := memory.NewStockMovementRepository(store).SumDeltas(ctx, "MAT-001")
	require.NoError(t, err)

	m, err := uc.GetMaterial(ctx, "MAT-001")
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(sum), "quantity = %s, suma de deltas = %s", m.Quantity, sum)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(9)))
}

func TestApplyDelta_MaterialInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)

	_, err := uc.ApplyDelta(context.Background(), "MAT-404", decimal.NewFromInt(1), entity.MovementTypeEntrada, "")
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
	assert.Empty(t, store.Movements(), "una mutación fallida no debe dejar movimiento")
}

// La cantidad puede quedar negativa: esta capa no impone cota inferior, la
// suficiencia es del motor de pedidos.
func TestApplyDelta_PermiteCantidadNegativa(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(store, "MAT-001", "Empaque de Caucho", "1", 5)
	uc := newUseCase(store)

	m, err := uc.ApplyDelta(context.Background(), "MAT-001", decimal.NewFromInt(-3), entity.MovementTypePedido, "PED-1")
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-2)))
	assert.True(t, m.Low)
}

func TestListMovements_HistorialReciente(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(store, "MAT-001", "Empaque de Caucho", "0", 5)
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.ApplyDelta(ctx, "MAT-001", decimal.NewFromInt(10), entity.MovementTypeEntrada, "compra-1")
	require.NoError(t, err)
	_, err = uc.ApplyDelta(ctx, "MAT-001", decimal.NewFromInt(-4), entity.MovementTypePedido, "PED-1")
	require.NoError(t, err)

	movs, err := uc.ListMovements(ctx, "MAT-001", 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// Más recientes primero.
	assert.True(t, movs[0].Delta.Equal(decimal.NewFromInt(-4)))
	assert.True(t, movs[1].Delta.Equal(decimal.NewFromInt(10)))

	// Paginación.
	page, err := uc.ListMovements(ctx, "MAT-001", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].Delta.Equal(decimal.NewFromInt(10)))
}

func TestListMovements_MaterialInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)

	_, err := uc.ListMovements(context.Background(), "MAT-404", 10, 0)
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
}

// Re-ejecutar el seed con el mismo catálogo (reinicio del proceso) no debe
// duplicar filas ni resetear las cantidades acumuladas.
func TestSeedCatalog_Idempotente(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewMaterialRepository(store)
	cat := catalog.New(map[string]string{
		"Tela Algodón":   "MAT-001",
		"Hilo Poliéster": "MAT-002",
	}, nil)
	ctx := context.Background()

	require.NoError(t, inventory.SeedCatalog(ctx, repo, cat, 5))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Quantity.IsZero())

	// Mutar stock entre un arranque y el siguiente.
	uc := newUseCase(store)
	_, err = uc.ApplyDelta(ctx, "MAT-001", decimal.NewFromInt(7), entity.MovementTypeEntrada, "compra-1")
	require.NoError(t, err)

	require.NoError(t, inventory.SeedCatalog(ctx, repo, cat, 5))

	all, err = repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2, "el re-seed no debe duplicar filas")

	m, err := repo.GetByID(ctx, "MAT-001")
	require.NoError(t, err)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(7)), "el re-seed no debe resetear cantidades")
}

// Un limit por encima del tope devuelve el tope, nunca menos que un limit válido menor.
func TestListMovements_LimiteMaximo(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(store, "MAT-001", "Empaque de Caucho", "0", 5)
	movRepo := memory.NewStockMovementRepository(store)
	ctx := context.Background()

	for i := 0; i < 205; i++ {
		require.NoError(t, movRepo.Create(ctx, &entity.StockMovement{
			MaterialID: "MAT-001",
			Delta:      decimal.NewFromInt(1),
			Type:       entity.MovementTypeEntrada,
			CreatedAt:  time.Now().UTC(),
		}))
	}

	uc := newUseCase(store)
	movs, err := uc.ListMovements(ctx, "MAT-001", 300, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 200, "pedir 300 no puede devolver menos que pedir 200")
}

func TestListMaterials_FiltroOnlyLow(t *testing.T) {
	store := memory.NewStore()
	// MAT-001 bajo umbral; MAT-002 en empate exacto, también cuenta como alerta.
	seedMaterial(store, "MAT-001", "Tela Algodón", "2", 5)
	seedMaterial(store, "MAT-002", "Hilo Poliéster", "5", 5)
	seedMaterial(store, "MAT-003", "Botón 15mm", "50", 5)
	uc := newUseCase(store)
	ctx := context.Background()

	all, err := uc.ListMaterials(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	low, err := uc.ListMaterials(ctx, true)
	require.NoError(t, err)
	require.Len(t, low, 2)
	// El listado viene ordenado por nombre.
	assert.Equal(t, "Hilo Poliéster", low[0].Name)
	assert.Equal(t, "Tela Algodón", low[1].Name)
}
