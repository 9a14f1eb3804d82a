package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/inventory"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// Line es una línea de pedido: SKU vendible y unidades pedidas.
type Line struct {
	SKU      string
	Quantity int
}

// Order es la entrada del motor de conciliación.
type Order struct {
	ID    string
	Lines []Line
	// MovementType es el tipo de movimiento a registrar en los débitos
	// (pedido para webhook, pedido-form para el formulario).
	MovementType string
}

// Result es el resultado de conciliar un pedido. Si Shortages no está vacío,
// ningún débito fue aplicado.
type Result struct {
	OrderID   string
	Debited   map[string]decimal.Decimal // material_id -> cantidad debitada
	Shortages []entity.Shortage
}

// ReconcileUseCase expande un pedido a débitos de materia prima vía la ficha
// técnica, verifica suficiencia y aplica todos los débitos en una sola
// transacción, o ninguno.
type ReconcileUseCase struct {
	catalog  *catalog.Catalog
	txRunner inventory.TxRunner
}

// NewReconcileUseCase construye el motor con el catálogo inmutable inyectado.
func NewReconcileUseCase(cat *catalog.Catalog, txRunner inventory.TxRunner) *ReconcileUseCase {
	return &ReconcileUseCase{catalog: cat, txRunner: txRunner}
}

// Reconcile procesa un pedido completo:
//  1. Resuelve cada SKU; un SKU sin ficha técnica rechaza el pedido entero
//     (ErrSKUNotFound) sin débitos. Política decidida: un pedido con una línea
//     ignorada en silencio vendería producto sin debitar sus materiales.
//  2. Agrega los requerimientos por material sumando todas las líneas.
//  3. En una transacción: bloquea las filas (FOR UPDATE, en orden de id para
//     evitar deadlocks entre pedidos concurrentes), verifica suficiencia y,
//     solo si no hay faltantes, aplica todos los débitos.
//
// Empates (disponible == requerido) se consideran suficientes.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, order Order) (*Result, error) {
	if order.ID == "" || len(order.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range order.Lines {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
	}
	movType := order.MovementType
	if movType == "" {
		movType = entity.MovementTypePedido
	}

	totals, err := uc.expand(order)
	if err != nil {
		return nil, err
	}

	// Orden estable de materiales: el FOR UPDATE en orden de id evita que dos
	// pedidos concurrentes sobre los mismos materiales se bloqueen en cruz.
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &Result{OrderID: order.ID, Debited: make(map[string]decimal.Decimal, len(totals))}

	err = uc.txRunner.Run(ctx, func(
		matRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Pre-check con las filas ya bloqueadas: la verificación y el débito
		// quedan dentro de la misma sección crítica.
		materials := make(map[string]*entity.Material, len(ids))
		var shortages []entity.Shortage
		for _, id := range ids {
			m, err := matRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			materials[id] = m
			if m.Quantity.LessThan(totals[id]) {
				shortages = append(shortages, entity.Shortage{
					MaterialID: id,
					Needed:     totals[id],
					Available:  m.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			result.Shortages = shortages
			return domain.ErrInsufficientStock // fuerza rollback; no hubo escrituras
		}

		now := time.Now().UTC()
		for _, id := range ids {
			required := totals[id]
			if _, err := inventory.ApplyDeltaInTx(ctx, matRepo, movRepo, id, required.Neg(), movType, order.ID, now); err != nil {
				return err
			}
			result.Debited[id] = required
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			// Resultado de negocio con el detalle completo de faltantes.
			return result, domain.ErrInsufficientStock
		}
		return nil, err
	}
	return result, nil
}

// expand resuelve cada línea por la ficha técnica y acumula los requerimientos
// por material: el mismo material exigido por dos SKUs distintos se suma una
// sola vez antes de la verificación de suficiencia.
func (uc *ReconcileUseCase) expand(order Order) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, line := range order.Lines {
		components, ok := uc.catalog.ResolveBOM(line.SKU)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrSKUNotFound, line.SKU)
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, comp := range components {
			matID, ok := uc.catalog.ResolveMaterialID(comp.Material)
			if !ok {
				// Ficha técnica referencia un material fuera del catálogo:
				// misma política que un SKU desconocido.
				return nil, fmt.Errorf("%w: material %q del sku %s", domain.ErrMaterialNotFound, comp.Material, line.SKU)
			}
			totals[matID] = totals[matID].Add(comp.QtyPerUnit.Mul(qty))
		}
	}
	return totals, nil
}
