package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// ErrItemNotFound indicates the (order, SKU) pair is not on the load sheet
var ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Load sheet item not found")

// LoadSheetRepository defines the interface for load sheet persistence
type LoadSheetRepository interface {
	// FindByID finds a load sheet by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*LoadSheet, error)

	// FindAll finds all load sheets matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]LoadSheet, error)

	// FindByStatus finds load sheets in a specific status
	FindByStatus(ctx context.Context, status LoadSheetStatus, filter shared.Filter) ([]LoadSheet, error)

	// FindByAssignee finds load sheets assigned to a delivery user
	FindByAssignee(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]LoadSheet, error)

	// Save creates or updates a load sheet together with its items
	Save(ctx context.Context, sheet *LoadSheet) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sheet *LoadSheet) error

	// Count counts load sheets matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
