package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appfulfillment "github.com/sfa/backend/internal/application/fulfillment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 40, time.Now().AddDate(0, 6, 0))

	err := scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		loaded, err := repos.SKURepo().FindByID(ctx, sku.ID)
		if err != nil {
			return err
		}
		if err := loaded.DebitBatch(loaded.Batches[0].ID, decimal.NewFromInt(10)); err != nil {
			return err
		}
		return repos.SKURepo().SaveWithLock(ctx, loaded)
	})
	require.NoError(t, err)

	found, err := NewGormSKURepository(db).FindByID(ctx, sku.ID)
	require.NoError(t, err)
	assert.True(t, found.Stock.Equal(decimal.NewFromInt(30)))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	sku := seedSKU(t, db, "Cola", 40, time.Now().AddDate(0, 6, 0))

	boom := errors.New("allocation failed")
	err := scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		loaded, err := repos.SKURepo().FindByID(ctx, sku.ID)
		if err != nil {
			return err
		}
		if err := loaded.DebitBatch(loaded.Batches[0].ID, decimal.NewFromInt(10)); err != nil {
			return err
		}
		if err := repos.SKURepo().SaveWithLock(ctx, loaded); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The debit inside the failed transaction must not be visible
	found, err := NewGormSKURepository(db).FindByID(ctx, sku.ID)
	require.NoError(t, err)
	assert.True(t, found.Stock.Equal(decimal.NewFromInt(40)))
}
