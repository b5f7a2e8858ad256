package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormActivityLogRepository_RecordAndRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormActivityLogRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first := activity.NewEntry(userID, "Ravi Kumar", activity.ActionOrderCreated, "Order for Main St Kirana")
	second := activity.NewEntry(userID, "Ravi Kumar", activity.ActionLoadSheetCreated, "2 orders loaded")
	second.Timestamp = first.Timestamp.Add(1)

	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, activity.ActionLoadSheetCreated, entries[0].Action)
	assert.Equal(t, activity.ActionOrderCreated, entries[1].Action)
	assert.Equal(t, userID, entries[0].UserID)
}

func TestGormActivityLogRepository_RecentLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormActivityLogRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := activity.NewEntry(uuid.New(), "Priya Sharma", activity.ActionDeliveryRecorded, "delivered")
		require.NoError(t, repo.Record(ctx, entry))
	}

	entries, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
