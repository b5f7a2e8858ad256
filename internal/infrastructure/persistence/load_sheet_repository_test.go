package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLoadSheet(t *testing.T, db *gorm.DB, assignee uuid.UUID) *fulfillment.LoadSheet {
	t.Helper()

	orderID := uuid.New()
	batchID := uuid.New()
	items := []fulfillment.LoadSheetItem{
		{
			OrderID:           orderID,
			SKUID:             uuid.New(),
			RequestedQuantity: decimal.NewFromInt(10),
			FulfilledQuantity: decimal.NewFromInt(10),
			BatchID:           batchID,
			Sources: []fulfillment.BatchAllocation{
				{BatchID: batchID, BatchNumber: "B-001", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(8)},
			},
		},
	}
	sheet, err := fulfillment.NewLoadSheet(assignee, "Ravi Kumar", []uuid.UUID{orderID}, items)
	require.NoError(t, err)

	repo := NewGormLoadSheetRepository(db)
	require.NoError(t, repo.Save(context.Background(), sheet))
	return sheet
}

func TestGormLoadSheetRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadSheetRepository(db)
	ctx := context.Background()

	sheet := seedLoadSheet(t, db, uuid.New())

	found, err := repo.FindByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.LoadSheetStatusLoaded, found.Status)
	assert.Equal(t, "Ravi Kumar", found.AssigneeName)
	require.Len(t, found.RelatedOrders, 1)
	require.Len(t, found.Items, 1)

	// The batch-level breakdown survives the round trip
	item := found.Items[0]
	require.Len(t, item.Sources, 1)
	assert.Equal(t, "B-001", item.Sources[0].BatchNumber)
	assert.True(t, item.Sources[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, fulfillment.DeliveryStatusPending, item.DeliveryStatus)
}

func TestGormLoadSheetRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadSheetRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormLoadSheetRepository_SaveWithLockPersistsOutcomes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadSheetRepository(db)
	ctx := context.Background()

	sheet := seedLoadSheet(t, db, uuid.New())

	loaded, err := repo.FindByID(ctx, sheet.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Dispatch())

	item := loaded.Items[0]
	credits, err := loaded.MarkItemReturned(item.OrderID, item.SKUID, decimal.NewFromInt(4))
	require.NoError(t, err)
	require.Len(t, credits, 1)
	require.NoError(t, repo.SaveWithLock(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.LoadSheetStatusOutForDelivery, reloaded.Status)
	assert.Equal(t, fulfillment.DeliveryStatusPartiallyReturned, reloaded.Items[0].DeliveryStatus)
	assert.True(t, reloaded.Items[0].ReturnedQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, reloaded.Items[0].Sources[0].ReturnedQuantity.Equal(decimal.NewFromInt(4)))
}

func TestGormLoadSheetRepository_SaveWithLock_StaleVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadSheetRepository(db)
	ctx := context.Background()

	sheet := seedLoadSheet(t, db, uuid.New())

	first, err := repo.FindByID(ctx, sheet.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, sheet.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SaveWithLock(ctx, first))

	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", derr.Code)
}

func TestGormLoadSheetRepository_FindByStatusAndAssignee(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoadSheetRepository(db)
	ctx := context.Background()

	assignee := uuid.New()
	sheet := seedLoadSheet(t, db, assignee)
	other := seedLoadSheet(t, db, uuid.New())

	dispatched, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	require.NoError(t, dispatched.Dispatch())
	require.NoError(t, repo.SaveWithLock(ctx, dispatched))

	loaded, err := repo.FindByStatus(ctx, fulfillment.LoadSheetStatusLoaded, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, sheet.ID, loaded[0].ID)

	mine, err := repo.FindByAssignee(ctx, assignee, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, sheet.ID, mine[0].ID)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
