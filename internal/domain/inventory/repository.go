package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// SKURepository defines the interface for SKU persistence.
//
// Batch is a child entity within the SKU aggregate: all batch mutations go
// through SKU methods and are persisted when the aggregate is saved. The
// repository only exposes batch-level reads that span aggregates (expiring
// stock queries and reverse lookup for reconciliation).
type SKURepository interface {
	// FindByID finds a SKU by its ID, including its batches
	FindByID(ctx context.Context, id uuid.UUID) (*SKU, error)

	// FindByIDs finds multiple SKUs by their IDs, including batches
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SKU, error)

	// FindAll finds all SKUs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SKU, error)

	// FindByBatch finds the SKU owning the given batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) (*SKU, error)

	// Save creates or updates a SKU together with its batches
	Save(ctx context.Context, sku *SKU) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sku *SKU) error

	// Delete deletes a SKU and its batches
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts SKUs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
