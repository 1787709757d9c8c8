package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/internal/domain/repository"
	"github.com/jhoicas/inventario-service/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-service/pkg/config"
)

// getPool conecta a POSTGRES_TEST_URL; sin base de datos el test se omite.
func getPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL no definido, se omite test de integración")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	if err != nil {
		t.Skipf("PostgreSQL no disponible: %v", err)
	}
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

func cleanup(t *testing.T, pool *pgxpool.Pool, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		_, _ = pool.Exec(context.Background(), `DELETE FROM inventarios WHERE product_id = $1`, id)
	}
}

func TestInventoryRepo_Upsert(t *testing.T) {
	pool := getPool(t)
	ctx := context.Background()
	const id = int64(900001)
	cleanup(t, pool, id)
	defer cleanup(t, pool, id)

	repo := postgres.NewInventoryRepository(pool)

	got, err := repo.FindByProductID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	created, err := repo.Save(ctx, &entity.Inventory{ProductID: id, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, created.Quantity)

	updated, err := repo.Save(ctx, &entity.Inventory{ProductID: id, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, repo.Delete(ctx, updated))
	got, err = repo.FindByProductID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInventoryRepo_CantidadNegativaViolaCheck(t *testing.T) {
	pool := getPool(t)
	const id = int64(900002)
	defer cleanup(t, pool, id)

	_, err := postgres.NewInventoryRepository(pool).Save(context.Background(), &entity.Inventory{ProductID: id, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTxRunner_ComprasConcurrentes(t *testing.T) {
	pool := getPool(t)
	ctx := context.Background()
	const id = int64(900003)
	cleanup(t, pool, id)
	defer cleanup(t, pool, id)

	_, err := postgres.NewInventoryRepository(pool).Save(ctx, &entity.Inventory{ProductID: id, Quantity: 20})
	require.NoError(t, err)

	runner := postgres.NewTxRunner(pool)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = runner.Run(ctx, func(repo repository.InventoryRepository) error {
				inv, err := repo.FindByProductIDForUpdate(ctx, id)
				if err != nil || inv == nil {
					return err
				}
				inv.Quantity--
				_, err = repo.Save(ctx, inv)
				return err
			})
		}()
	}
	wg.Wait()

	got, err := postgres.NewInventoryRepository(pool).FindByProductID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity, "el bloqueo de fila no debe perder descuentos")
}
