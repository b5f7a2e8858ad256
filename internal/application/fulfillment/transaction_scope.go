package fulfillment

import (
	"context"

	domainfulfillment "github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories the
// fulfillment engine touches. When a function is executed within a scope,
// all repository operations are part of the same database transaction and
// commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - SKURepo: the SKU aggregate owns its batches; batch debits and credits
//     go through SKU methods and persist with the aggregate.
//   - OrderRepo: order items and fulfilled items persist with the order.
//   - LoadSheetRepo: load sheet items persist with the sheet.
type TransactionalRepositories interface {
	// SKURepo returns the SKU repository scoped to the current transaction
	SKURepo() inventory.SKURepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
	// LoadSheetRepo returns the load sheet repository scoped to the current transaction
	LoadSheetRepo() domainfulfillment.LoadSheetRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	skuRepo       inventory.SKURepository
	orderRepo     sales.OrderRepository
	loadSheetRepo domainfulfillment.LoadSheetRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	skuRepo inventory.SKURepository,
	orderRepo sales.OrderRepository,
	loadSheetRepo domainfulfillment.LoadSheetRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		skuRepo:       skuRepo,
		orderRepo:     orderRepo,
		loadSheetRepo: loadSheetRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SKURepo returns the SKU repository
func (s *NoOpTransactionScope) SKURepo() inventory.SKURepository {
	return s.skuRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// LoadSheetRepo returns the load sheet repository
func (s *NoOpTransactionScope) LoadSheetRepo() domainfulfillment.LoadSheetRepository {
	return s.loadSheetRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
