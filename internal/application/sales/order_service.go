package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order placement and lifecycle operations that do not
// touch the inventory ledger
type OrderService struct {
	orderRepo      sales.OrderRepository
	outletRepo     identity.OutletRepository
	userRepo       identity.UserRepository
	recorder       activity.Recorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo sales.OrderRepository,
	outletRepo identity.OutletRepository,
	userRepo identity.UserRepository,
	recorder activity.Recorder,
	logger *zap.Logger,
) *OrderService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:  orderRepo,
		outletRepo: outletRepo,
		userRepo:   userRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents drains and publishes the order's pending domain events.
// Publishing is best-effort after a successful save.
func (s *OrderService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	order.ClearDomainEvents()
}

// Create places a new pending order for an outlet
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order requires at least one item")
	}

	outlet, err := s.outletRepo.FindByID(ctx, req.OutletID)
	if err != nil {
		return nil, shared.NewDomainError("OUTLET_NOT_FOUND", "Outlet not found")
	}
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := sales.NewOrder(outlet.ID, user.ID, orderDate)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if err := order.AddItem(item.SKUID, item.Quantity, item.Price); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("outlet", outlet.Name),
		zap.Int("items", len(order.Items)))
	s.publishEvents(ctx, order)

	entry := activity.NewEntry(user.ID, user.Name, activity.ActionOrderCreated,
		fmt.Sprintf("Order %s placed for %s", order.ID, outlet.Name))
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	repoFilter := shared.DefaultFilter()
	repoFilter.Page = filter.Page
	repoFilter.PageSize = filter.PageSize

	var (
		orders []sales.Order
		err    error
	)
	switch {
	case filter.Status != "":
		orders, err = s.orderRepo.FindByStatus(ctx, sales.OrderStatus(filter.Status), repoFilter)
	case filter.OutletID != uuid.Nil:
		orders, err = s.orderRepo.FindByOutlet(ctx, filter.OutletID, repoFilter)
	default:
		orders, err = s.orderRepo.FindAll(ctx, repoFilter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Cancel cancels an order before fulfillment
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("reason", req.Reason))
	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}
