package memory

import (
	"context"

	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks de forma serializada sobre InventoryRepo.
// Las escrituras se acumulan y solo se aplican si fn devuelve nil (Commit).
type TxRunner struct {
	repo *InventoryRepo
}

// NewTxRunner construye el runner sobre el repositorio en memoria.
func NewTxRunner(repo *InventoryRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// Run toma el lock de transacción, ejecuta fn y aplica o descarta las escrituras.
func (t *TxRunner) Run(ctx context.Context, fn func(repo repository.InventoryRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.repo.txMu.Lock()
	defer t.repo.txMu.Unlock()

	tx := &txRepo{base: t.repo, staged: make(map[int64]*entity.Inventory)}
	if err := fn(tx); err != nil {
		return err
	}

	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, inv := range tx.staged {
		if inv == nil {
			delete(t.repo.items, id)
			continue
		}
		t.repo.put(*inv)
	}
	return nil
}

// txRepo vista transaccional: lee primero lo escrito en la tx, luego el estado confirmado.
// Un valor nil en staged marca un borrado.
type txRepo struct {
	base   *InventoryRepo
	staged map[int64]*entity.Inventory
}

func (r *txRepo) FindByProductID(ctx context.Context, productID int64) (*entity.Inventory, error) {
	if inv, ok := r.staged[productID]; ok {
		if inv == nil {
			return nil, nil
		}
		cp := *inv
		return &cp, nil
	}
	return r.base.FindByProductID(ctx, productID)
}

func (r *txRepo) FindByProductIDForUpdate(ctx context.Context, productID int64) (*entity.Inventory, error) {
	return r.FindByProductID(ctx, productID)
}

func (r *txRepo) Save(ctx context.Context, inv *entity.Inventory) (*entity.Inventory, error) {
	cp := *inv
	if prev, err := r.FindByProductID(ctx, inv.ProductID); err == nil && prev != nil && !prev.CreatedAt.IsZero() {
		cp.CreatedAt = prev.CreatedAt
	}
	r.staged[inv.ProductID] = &cp
	out := cp
	return &out, nil
}

func (r *txRepo) Delete(_ context.Context, inv *entity.Inventory) error {
	r.staged[inv.ProductID] = nil
	return nil
}
