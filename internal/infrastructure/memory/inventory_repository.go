package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación en memoria de InventoryRepository (STORE_DRIVER=memory y tests).
// Devuelve copias; nunca expone punteros a su estado interno.
type InventoryRepo struct {
	mu    sync.RWMutex
	items map[int64]entity.Inventory

	// txMu serializa las transacciones de TxRunner (equivalente a bloqueo de fila).
	txMu sync.Mutex
}

// NewInventoryRepository construye el repositorio vacío.
func NewInventoryRepository() *InventoryRepo {
	return &InventoryRepo{items: make(map[int64]entity.Inventory)}
}

// FindByProductID obtiene el inventario de un producto. (nil, nil) si no existe.
func (r *InventoryRepo) FindByProductID(_ context.Context, productID int64) (*entity.Inventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.items[productID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// FindByProductIDForUpdate igual que FindByProductID; el bloqueo lo aporta TxRunner.
func (r *InventoryRepo) FindByProductIDForUpdate(ctx context.Context, productID int64) (*entity.Inventory, error) {
	return r.FindByProductID(ctx, productID)
}

// Save inserta o actualiza la cantidad. Conserva CreatedAt del registro existente.
func (r *InventoryRepo) Save(_ context.Context, inv *entity.Inventory) (*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.put(*inv)
	return &out, nil
}

// Delete elimina el registro del producto.
func (r *InventoryRepo) Delete(_ context.Context, inv *entity.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, inv.ProductID)
	return nil
}

// Len número de registros (tests).
func (r *InventoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// put debe llamarse con mu tomado.
func (r *InventoryRepo) put(inv entity.Inventory) entity.Inventory {
	now := time.Now()
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = now
	}
	if prev, ok := r.items[inv.ProductID]; ok {
		inv.CreatedAt = prev.CreatedAt
	} else if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	r.items[inv.ProductID] = inv
	return inv
}
