package repository

import (
	"context"

	"github.com/jhoicas/inventario-service/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para Inventory, indexado por ProductID (DIP).
// Los métodos Find devuelven (nil, nil) cuando no existe registro.
type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID int64) (*entity.Inventory, error)
	// FindByProductIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	FindByProductIDForUpdate(ctx context.Context, productID int64) (*entity.Inventory, error)
	// Save inserta si no existe registro para el ProductID; si existe actualiza la cantidad.
	Save(ctx context.Context, inv *entity.Inventory) (*entity.Inventory, error)
	Delete(ctx context.Context, inv *entity.Inventory) error
}
