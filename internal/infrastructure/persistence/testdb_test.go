package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&inventory.SKU{},
		&inventory.Batch{},
		&sales.Order{},
		&sales.OrderItem{},
		&sales.FulfilledItem{},
		&fulfillment.LoadSheet{},
		&fulfillment.LoadSheetItem{},
		&identity.User{},
		&identity.Outlet{},
		&ActivityLogModel{},
	)
	require.NoError(t, err)

	return db
}

// seedSKU creates a SKU with one received batch and persists it
func seedSKU(t *testing.T, db *gorm.DB, name string, qty int64, expiry time.Time) *inventory.SKU {
	t.Helper()

	sku, err := inventory.NewSKU(name, "", "Beverages")
	require.NoError(t, err)
	_, err = sku.ReceiveBatch("B-"+name, decimal.NewFromInt(qty), decimal.NewFromInt(10), expiry)
	require.NoError(t, err)

	repo := NewGormSKURepository(db)
	require.NoError(t, repo.Save(context.Background(), sku))
	return sku
}
