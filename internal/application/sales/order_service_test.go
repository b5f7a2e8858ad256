package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOutletRepository is a mock implementation of OutletRepository
type MockOutletRepository struct {
	mock.Mock
}

func (m *MockOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Outlet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Outlet), args.Error(1)
}

func (m *MockOutletRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Outlet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Outlet), args.Error(1)
}

func (m *MockOutletRepository) Save(ctx context.Context, outlet *identity.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *MockOutletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByName(ctx context.Context, name string) (*identity.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newOrderServiceFixture(t *testing.T) (*OrderService, *MockOrderRepository, *identity.Outlet, *identity.User) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	outletRepo := new(MockOutletRepository)
	userRepo := new(MockUserRepository)

	outlet, err := identity.NewOutlet("Corner Store", "12 Main St", "091-555")
	require.NoError(t, err)
	user, err := identity.NewUser("Aye Chan", identity.RoleSalesRep)
	require.NoError(t, err)

	outletRepo.On("FindByID", mock.Anything, outlet.ID).Return(outlet, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	service := NewOrderService(orderRepo, outletRepo, userRepo, nil, nil)
	return service, orderRepo, outlet, user
}

func TestCreateOrder(t *testing.T) {
	service, orderRepo, outlet, user := newOrderServiceFixture(t)

	orderRepo.On("Save", mock.Anything, mock.MatchedBy(func(o *sales.Order) bool {
		return o.OutletID == outlet.ID && o.Status == sales.OrderStatusPending
	})).Return(nil)

	resp, err := service.Create(context.Background(), CreateOrderRequest{
		OutletID: outlet.ID,
		UserID:   user.ID,
		Items: []OrderItemRequest{
			{SKUID: uuid.New(), Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(10)},
			{SKUID: uuid.New(), Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pending", resp.Status)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(56)))
	orderRepo.AssertExpectations(t)
}

func TestCreateOrder_NoItems(t *testing.T) {
	service, _, outlet, user := newOrderServiceFixture(t)

	_, err := service.Create(context.Background(), CreateOrderRequest{
		OutletID: outlet.ID,
		UserID:   user.ID,
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_ITEMS", derr.Code)
}

func TestCreateOrder_UnknownOutlet(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	outletRepo := new(MockOutletRepository)
	userRepo := new(MockUserRepository)
	service := NewOrderService(orderRepo, outletRepo, userRepo, nil, nil)

	outletID := uuid.New()
	outletRepo.On("FindByID", mock.Anything, outletID).Return(nil, shared.NewDomainError("OUTLET_NOT_FOUND", "Outlet not found"))

	_, err := service.Create(context.Background(), CreateOrderRequest{
		OutletID: outletID,
		UserID:   uuid.New(),
		Items:    []OrderItemRequest{{SKUID: uuid.New(), Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "OUTLET_NOT_FOUND", derr.Code)
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCancelOrder(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, new(MockOutletRepository), new(MockUserRepository), nil, nil)

	order := pendingOrder(t)
	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.Cancel(context.Background(), order.ID, CancelOrderRequest{Reason: "customer declined"})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", resp.Status)
	repo.AssertExpectations(t)
}

func TestListOrders_StatusFilter(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, new(MockOutletRepository), new(MockUserRepository), nil, nil)

	order := pendingOrder(t)
	repo.On("FindByStatus", mock.Anything, sales.OrderStatusPending, mock.Anything).Return([]sales.Order{*order}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	resp, err := service.List(context.Background(), OrderListFilter{Status: "Pending"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, order.ID, resp.Items[0].ID)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
}
