package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, including items and fulfillment
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDs finds multiple orders by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a specific status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindByOutlet finds orders placed by an outlet
	FindByOutlet(ctx context.Context, outletID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// Delete deletes an order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders in a specific status
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)

	// GenerateInvoiceNumber generates a new unique invoice number
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
