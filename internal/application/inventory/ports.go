package inventory

import (
	"context"

	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
)

// ProductCatalog puerto de salida hacia el microservicio de productos.
// Fetch devuelve (nil, nil) cuando el producto no existe; cualquier otro error
// indica que el servicio no respondió (domain.ErrUpstreamUnavailable).
type ProductCatalog interface {
	Fetch(ctx context.Context, productID int64) (*entity.ProductSummary, error)
}

// ChangeNotifier publica "cantidad cambiada" sin bloquear ni devolver error al caller.
type ChangeNotifier interface {
	Notify(ctx context.Context, productID int64, newQuantity int)
}

// TxRunner ejecuta una función dentro de una transacción, pasando un repositorio atado a esa tx.
// Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.InventoryRepository) error) error
}
