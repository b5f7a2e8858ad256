package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSKURepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 6, 0)
	sku := seedSKU(t, db, "Cola 500ml", 40, expiry)

	found, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola 500ml", found.Name)
	assert.True(t, found.Stock.Equal(decimal.NewFromInt(40)))
	require.Len(t, found.Batches, 1)
	assert.Equal(t, "B-Cola 500ml", found.Batches[0].BatchNumber)
	assert.True(t, found.Stock.Equal(found.TotalBatchQuantity()))
}

func TestGormSKURepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSKURepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 6, 0)
	a := seedSKU(t, db, "Cola", 10, expiry)
	b := seedSKU(t, db, "Chips", 20, expiry)
	seedSKU(t, db, "Water", 30, expiry)

	skus, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, skus, 2)
	for _, sku := range skus {
		assert.NotEmpty(t, sku.Batches)
	}

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormSKURepository_FindByBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 10, time.Now().AddDate(0, 6, 0))
	batchID := sku.Batches[0].ID

	owner, err := repo.FindByBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, sku.ID, owner.ID)

	_, err = repo.FindByBatch(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSKURepository_SavePersistsBatchMutations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 40, time.Now().AddDate(0, 6, 0))

	loaded, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.DebitBatch(loaded.Batches[0].ID, decimal.NewFromInt(15)))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Stock.Equal(decimal.NewFromInt(25)))
	assert.True(t, reloaded.Batches[0].Quantity.Equal(decimal.NewFromInt(25)))
}

func TestGormSKURepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 40, time.Now().AddDate(0, 6, 0))

	loaded, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	priorVersion := loaded.Version

	require.NoError(t, loaded.DebitBatch(loaded.Batches[0].ID, decimal.NewFromInt(5)))
	require.NoError(t, repo.SaveWithLock(ctx, loaded))
	assert.Equal(t, priorVersion+1, loaded.Version)

	reloaded, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Stock.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, priorVersion+1, reloaded.Version)
}

func TestGormSKURepository_SaveWithLock_StaleVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 40, time.Now().AddDate(0, 6, 0))

	first, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, sku.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SaveWithLock(ctx, first))

	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", derr.Code)
}

func TestGormSKURepository_FindAllAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 6, 0)
	seedSKU(t, db, "Cola", 10, expiry)
	seedSKU(t, db, "Chips", 20, expiry)

	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	skus, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, skus, 2)
	assert.Equal(t, "Chips", skus[0].Name)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormSKURepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSKURepository(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 10, time.Now().AddDate(0, 6, 0))

	require.NoError(t, repo.Delete(ctx, sku.ID))
	_, err := repo.FindByID(ctx, sku.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var batchCount int64
	require.NoError(t, db.Model(&inventory.Batch{}).Where("sku_id = ?", sku.ID).Count(&batchCount).Error)
	assert.Zero(t, batchCount)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}
