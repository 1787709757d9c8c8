package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-service/internal/application/dto"
	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// UseCase orquesta el inventario: combina el stock local con el microservicio de productos,
// valida compras contra el stock disponible y emite notificaciones de cambio.
// Las lecturas-modificación-escritura se ejecutan en TxRunner con bloqueo de fila.
type UseCase struct {
	txRunner TxRunner
	repo     repository.InventoryRepository
	catalog  ProductCatalog
	notifier ChangeNotifier
	log      *logger.Logger
}

// NewUseCase construye el orquestador. repo se usa para lecturas fuera de transacción.
func NewUseCase(
	txRunner TxRunner,
	repo repository.InventoryRepository,
	catalog ProductCatalog,
	notifier ChangeNotifier,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		log:      log,
	}
}

// QueryAvailability consulta la cantidad disponible de un producto.
// El producto debe existir en el catálogo aunque exista registro local.
func (uc *UseCase) QueryAvailability(ctx context.Context, productID int64) (*dto.AvailabilityResponse, error) {
	uc.log.Info().Int64("producto_id", productID).Msg("consultando cantidad disponible")

	product, err := uc.requireProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	inv, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	quantity := 0
	if inv != nil {
		quantity = inv.Quantity
	}

	out := &dto.AvailabilityResponse{
		ProductID:          productID,
		ProductName:        product.Name,
		ProductDescription: product.Description,
		ProductPrice:       product.Price,
		QuantityAvailable:  quantity,
		IsAvailable:        quantity > 0,
		ExistsInInventory:  inv != nil,
	}

	uc.log.Info().
		Str("producto", product.Name).
		Int("cantidad", quantity).
		Msg("consulta completada")
	return out, nil
}

// GetInventory devuelve el registro local sin consultar el catálogo.
func (uc *UseCase) GetInventory(ctx context.Context, productID int64) (*entity.Inventory, error) {
	inv, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, inventoryNotFound(productID)
	}
	return inv, nil
}

// RecordPurchase descuenta purchasedQty del stock del producto.
// Si el stock no alcanza devuelve *domain.InsufficientStockError y no modifica nada.
func (uc *UseCase) RecordPurchase(ctx context.Context, productID int64, purchasedQty int) (*entity.Inventory, error) {
	uc.log.Info().
		Int64("producto_id", productID).
		Int("cantidad_comprada", purchasedQty).
		Msg("actualizando inventario por compra")

	if purchasedQty <= 0 {
		return nil, fmt.Errorf("la cantidad comprada debe ser mayor a 0: %w", domain.ErrInvalidInput)
	}

	var updated *entity.Inventory
	err := uc.txRunner.Run(ctx, func(repo repository.InventoryRepository) error {
		inv, err := repo.FindByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			return inventoryNotFound(productID)
		}
		newQty := inv.Quantity - purchasedQty
		if newQty < 0 {
			return &domain.InsufficientStockError{
				ProductID: productID,
				Available: inv.Quantity,
				Requested: purchasedQty,
			}
		}
		inv.Quantity = newQty
		inv.UpdatedAt = time.Now()
		updated, err = repo.Save(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, updated.ProductID, updated.Quantity)

	uc.log.Info().
		Int64("producto_id", productID).
		Int("nueva_cantidad", updated.Quantity).
		Msg("inventario actualizado")
	return updated, nil
}

// CreateInventory registra el inventario inicial de un producto existente en el catálogo.
// Orden de validación: producto existe, no hay registro previo, cantidad >= 0.
func (uc *UseCase) CreateInventory(ctx context.Context, in entity.Inventory) (*entity.Inventory, error) {
	if _, err := uc.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	var created *entity.Inventory
	err := uc.txRunner.Run(ctx, func(repo repository.InventoryRepository) error {
		existing, err := repo.FindByProductIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("ya existe inventario para el producto %d: %w", in.ProductID, domain.ErrConflict)
		}
		if in.Quantity < 0 {
			return fmt.Errorf("la cantidad no puede ser negativa: %w", domain.ErrInvalidInput)
		}
		now := time.Now()
		created, err = repo.Save(ctx, &entity.Inventory{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, created.ProductID, created.Quantity)
	return created, nil
}

// SetQuantity fija la cantidad de un registro existente.
// Siempre persiste; solo notifica si la cantidad cambió.
func (uc *UseCase) SetQuantity(ctx context.Context, productID int64, newQuantity int) (*entity.Inventory, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("la cantidad no puede ser negativa: %w", domain.ErrInvalidInput)
	}

	var (
		updated *entity.Inventory
		changed bool
	)
	err := uc.txRunner.Run(ctx, func(repo repository.InventoryRepository) error {
		inv, err := repo.FindByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			return inventoryNotFound(productID)
		}
		changed = inv.Quantity != newQuantity
		inv.Quantity = newQuantity
		inv.UpdatedAt = time.Now()
		updated, err = repo.Save(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.notifier.Notify(ctx, productID, newQuantity)
	}
	return updated, nil
}

// DeleteInventory elimina el registro y notifica cantidad 0 ("inventario vacío"),
// sin importar la cantidad que tenía.
func (uc *UseCase) DeleteInventory(ctx context.Context, productID int64) error {
	err := uc.txRunner.Run(ctx, func(repo repository.InventoryRepository) error {
		inv, err := repo.FindByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			return inventoryNotFound(productID)
		}
		return repo.Delete(ctx, inv)
	})
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, productID, 0)
	return nil
}

// requireProduct consulta el catálogo y convierte "ausente" en domain.ErrNotFound.
func (uc *UseCase) requireProduct(ctx context.Context, productID int64) (*entity.ProductSummary, error) {
	product, err := uc.catalog.Fetch(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}

func inventoryNotFound(productID int64) error {
	return fmt.Errorf("no existe inventario para el producto %d: %w", productID, domain.ErrNotFound)
}
