// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria, con semántica transaccional por snapshot. Se usa en los tests de
// los casos de uso para verificar atomicidad sin una base de datos real.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/entity"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain/repository"
)

// Store guarda materiales y movimientos protegidos por un mutex. El TxRunner
// toma el lock durante toda la transacción, de modo que dos "transacciones"
// concurrentes quedan serializadas igual que con filas bloqueadas.
type Store struct {
	mu        sync.Mutex
	materials map[string]entity.Material
	movements []entity.StockMovement
	nextMovID int64
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{materials: make(map[string]entity.Material), nextMovID: 1}
}

// AddMaterial inserta (o reemplaza) un material directamente. Solo para setup de tests.
func (s *Store) AddMaterial(m entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.ID] = m
}

// Movements devuelve una copia del ledger. Solo para aserciones de tests.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

// snapshot copia el estado para poder restaurarlo en un rollback.
func (s *Store) snapshot() (map[string]entity.Material, []entity.StockMovement, int64) {
	mats := make(map[string]entity.Material, len(s.materials))
	for id, m := range s.materials {
		mats[id] = m
	}
	return mats, append([]entity.StockMovement(nil), s.movements...), s.nextMovID
}

func (s *Store) restore(mats map[string]entity.Material, movs []entity.StockMovement, nextID int64) {
	s.materials = mats
	s.movements = movs
	s.nextMovID = nextID
}

// ── Repositorios ──────────────────────────────────────────────────────────────

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo repositorio de materiales en memoria. locked indica que el
// caller (TxRunner) ya sostiene el mutex del store.
type MaterialRepo struct {
	store  *Store
	locked bool
}

// NewMaterialRepository construye el repositorio para uso fuera de transacción.
func NewMaterialRepository(store *Store) *MaterialRepo {
	return &MaterialRepo{store: store}
}

func (r *MaterialRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// GetByID obtiene un material por id.
func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	defer r.lock()()
	m, ok := r.store.materials[id]
	if !ok {
		return nil, domain.ErrMaterialNotFound
	}
	cp := m
	return &cp, nil
}

// GetForUpdate en memoria equivale a GetByID: el lock del store ya serializa.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

// List devuelve los materiales en orden de nombre.
func (r *MaterialRepo) List(_ context.Context, onlyLow bool) ([]*entity.Material, error) {
	defer r.lock()()
	var list []*entity.Material
	for _, m := range r.store.materials {
		if onlyLow && !m.Low {
			continue
		}
		cp := m
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Save persiste un material existente.
func (r *MaterialRepo) Save(_ context.Context, m *entity.Material) error {
	defer r.lock()()
	if _, ok := r.store.materials[m.ID]; !ok {
		return domain.ErrMaterialNotFound
	}
	r.store.materials[m.ID] = *m
	return nil
}

// EnsureExists crea el material si no existe; no toca uno ya creado.
func (r *MaterialRepo) EnsureExists(_ context.Context, m *entity.Material) error {
	defer r.lock()()
	if _, ok := r.store.materials[m.ID]; ok {
		return nil
	}
	r.store.materials[m.ID] = *m
	return nil
}

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria.
type StockMovementRepo struct {
	store  *Store
	locked bool
}

// NewStockMovementRepository construye el repositorio para uso fuera de transacción.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

func (r *StockMovementRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create agrega un movimiento al ledger con id autoincremental.
func (r *StockMovementRepo) Create(_ context.Context, mv *entity.StockMovement) error {
	defer r.lock()()
	mv.ID = r.store.nextMovID
	r.store.nextMovID++
	r.store.movements = append(r.store.movements, *mv)
	return nil
}

// ListByMaterial lista movimientos de un material, más recientes primero.
func (r *StockMovementRepo) ListByMaterial(_ context.Context, materialID string, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.lock()()
	var all []*entity.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		if r.store.movements[i].MaterialID == materialID {
			cp := r.store.movements[i]
			all = append(all, &cp)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// SumDeltas suma todos los deltas de un material.
func (r *StockMovementRepo) SumDeltas(_ context.Context, materialID string) (decimal.Decimal, error) {
	defer r.lock()()
	sum := decimal.Zero
	for _, mv := range r.store.movements {
		if mv.MaterialID == materialID {
			sum = sum.Add(mv.Delta)
		}
	}
	return sum, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner serializa transacciones sobre el store y restaura el snapshot si
// fn falla: mismo contrato todo-o-nada que la transacción SQL real.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a la "transacción" (lock sostenido).
func (r *TxRunner) Run(_ context.Context, fn func(
	matRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	mats, movs, nextID := r.store.snapshot()
	matRepo := &MaterialRepo{store: r.store, locked: true}
	movRepo := &StockMovementRepo{store: r.store, locked: true}

	if err := fn(matRepo, movRepo); err != nil {
		r.store.restore(mats, movs, nextID)
		return err
	}
	return nil
}
