package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const selectInventory = `
		SELECT product_id, cantidad, created_at, updated_at
		FROM inventarios WHERE product_id = $1`

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// FindByProductID obtiene el inventario de un producto. (nil, nil) si no existe.
func (r *InventoryRepo) FindByProductID(ctx context.Context, productID int64) (*entity.Inventory, error) {
	inv, err := r.scanOne(ctx, selectInventory, productID)
	if err != nil {
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return inv, nil
}

// FindByProductIDForUpdate obtiene el inventario y bloquea la fila (SELECT FOR UPDATE).
// Toma además un advisory lock por product_id para serializar también la creación,
// cuando aún no hay fila que bloquear. Solo tiene efecto dentro de una transacción.
func (r *InventoryRepo) FindByProductIDForUpdate(ctx context.Context, productID int64) (*entity.Inventory, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, productID); err != nil {
		return nil, fmt.Errorf("lock inventario: %w", err)
	}
	inv, err := r.scanOne(ctx, selectInventory+"\n\t\tFOR UPDATE", productID)
	if err != nil {
		return nil, fmt.Errorf("get inventario for update: %w", err)
	}
	return inv, nil
}

// Save inserta o actualiza la cantidad del producto (upsert por product_id).
func (r *InventoryRepo) Save(ctx context.Context, inv *entity.Inventory) (*entity.Inventory, error) {
	query := `
		INSERT INTO inventarios (product_id, cantidad, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (product_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()
		RETURNING product_id, cantidad, created_at, updated_at`
	var out entity.Inventory
	err := r.q.QueryRow(ctx, query, inv.ProductID, inv.Quantity).Scan(
		&out.ProductID, &out.Quantity, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isCheckViolation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("upsert inventario: %w", err)
	}
	return &out, nil
}

// Delete elimina el inventario del producto.
func (r *InventoryRepo) Delete(ctx context.Context, inv *entity.Inventory) error {
	_, err := r.q.Exec(ctx, `DELETE FROM inventarios WHERE product_id = $1`, inv.ProductID)
	if err != nil {
		return fmt.Errorf("delete inventario: %w", err)
	}
	return nil
}

func (r *InventoryRepo) scanOne(ctx context.Context, query string, productID int64) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&inv.ProductID, &inv.Quantity, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}
