package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const (
	errDuplicateEntry   = 1062
	errCheckConstraint  = 3819
	selectInventoryByID = `
		SELECT product_id, cantidad, created_at, updated_at
		FROM inventarios WHERE product_id = ?`
)

// InventoryRepo implementación de InventoryRepository sobre MySQL (usable con *sql.DB o *sql.Tx).
type InventoryRepo struct {
	q querier
}

// NewInventoryRepository construye el adaptador sobre la conexión o transacción dada.
func NewInventoryRepository(q querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// NewInventoryRepositoryFromDB construye el adaptador sobre el pool.
func NewInventoryRepositoryFromDB(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{q: db}
}

func (r *InventoryRepo) FindByProductID(ctx context.Context, productID int64) (*entity.Inventory, error) {
	inv, err := r.scanOne(ctx, selectInventoryByID, productID)
	if err != nil {
		return nil, fmt.Errorf("query inventario: %w", err)
	}
	return inv, nil
}

// FindByProductIDForUpdate bloquea la fila (o el hueco del índice si no existe) con InnoDB.
func (r *InventoryRepo) FindByProductIDForUpdate(ctx context.Context, productID int64) (*entity.Inventory, error) {
	inv, err := r.scanOne(ctx, selectInventoryByID+" FOR UPDATE", productID)
	if err != nil {
		return nil, fmt.Errorf("query inventario for update: %w", err)
	}
	return inv, nil
}

func (r *InventoryRepo) Save(ctx context.Context, inv *entity.Inventory) (*entity.Inventory, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventarios (product_id, cantidad, created_at, updated_at)
		VALUES (?, ?, NOW(6), NOW(6))
		ON DUPLICATE KEY UPDATE cantidad = VALUES(cantidad), updated_at = NOW(6)`,
		inv.ProductID, inv.Quantity,
	)
	if err != nil {
		var myErr *gomysql.MySQLError
		if errors.As(err, &myErr) {
			switch myErr.Number {
			case errDuplicateEntry:
				return nil, domain.ErrConflict
			case errCheckConstraint:
				return nil, domain.ErrInvalidInput
			}
		}
		return nil, fmt.Errorf("upsert inventario: %w", err)
	}
	saved, err := r.scanOne(ctx, selectInventoryByID, inv.ProductID)
	if err != nil {
		return nil, fmt.Errorf("reload inventario: %w", err)
	}
	return saved, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, inv *entity.Inventory) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventarios WHERE product_id = ?`, inv.ProductID); err != nil {
		return fmt.Errorf("delete inventario: %w", err)
	}
	return nil
}

func (r *InventoryRepo) scanOne(ctx context.Context, query string, productID int64) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRowContext(ctx, query, productID).Scan(
		&inv.ProductID, &inv.Quantity, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
