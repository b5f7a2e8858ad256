package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status sales.OrderStatus, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOutlet(ctx context.Context, outletID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, outletID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status sales.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func pendingOrder(t *testing.T) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(10)))
	return order
}

func TestInvoiceOrders_MixedBatch(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewInvoicingService(repo, nil, nil)

	pending := pendingOrder(t)
	invoiced := pendingOrder(t)
	require.NoError(t, invoiced.Invoice("INV-2026-00001"))
	missing := uuid.New()

	ids := []uuid.UUID{pending.ID, invoiced.ID, missing}
	repo.On("FindByIDs", mock.Anything, ids).Return([]sales.Order{*pending, *invoiced}, nil)
	repo.On("GenerateInvoiceNumber", mock.Anything).Return("INV-2026-00002", nil)
	repo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(o *sales.Order) bool {
		return o.ID == pending.ID && o.Status == sales.OrderStatusInvoiced
	})).Return(nil)

	resp, err := service.InvoiceOrders(context.Background(), InvoiceOrdersRequest{OrderIDs: ids})
	require.NoError(t, err)

	require.Len(t, resp.Invoiced, 1)
	assert.Equal(t, pending.ID, resp.Invoiced[0].ID)
	assert.Equal(t, "INV-2026-00002", resp.Invoiced[0].InvoiceID)

	// Already-invoiced and unknown orders are skipped, not failed
	assert.ElementsMatch(t, []uuid.UUID{invoiced.ID, missing}, resp.Skipped)

	repo.AssertExpectations(t)
}

func TestInvoiceOrders_Empty(t *testing.T) {
	service := NewInvoicingService(new(MockOrderRepository), nil, nil)

	_, err := service.InvoiceOrders(context.Background(), InvoiceOrdersRequest{})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_ORDERS_SELECTED", derr.Code)
}

func TestInvoiceOrder_Single(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewInvoicingService(repo, nil, nil)

	order := pendingOrder(t)
	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("GenerateInvoiceNumber", mock.Anything).Return("INV-2026-00009", nil)
	repo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.InvoiceOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoiced", resp.Status)
	assert.Equal(t, "INV-2026-00009", resp.InvoiceID)
}

func TestInvoiceOrder_NotPending(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewInvoicingService(repo, nil, nil)

	order := pendingOrder(t)
	require.NoError(t, order.Invoice("INV-2026-00001"))
	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("GenerateInvoiceNumber", mock.Anything).Return("INV-2026-00002", nil)

	_, err := service.InvoiceOrder(context.Background(), order.ID)
	require.Error(t, err)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
