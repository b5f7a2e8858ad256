package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoicingService promotes pending orders to Invoiced, assigning sequential
// invoice numbers. Only invoiced orders are eligible for fulfillment.
type InvoicingService struct {
	orderRepo      sales.OrderRepository
	recorder       activity.Recorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoicingService creates a new InvoicingService
func NewInvoicingService(orderRepo sales.OrderRepository, recorder activity.Recorder, logger *zap.Logger) *InvoicingService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicingService{
		orderRepo: orderRepo,
		recorder:  recorder,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration
func (s *InvoicingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoicingService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	order.ClearDomainEvents()
}

// InvoiceOrders promotes the given orders to Invoiced. Orders that are not
// pending are skipped and reported back rather than failing the batch.
func (s *InvoicingService) InvoiceOrders(ctx context.Context, req InvoiceOrdersRequest) (*InvoiceOrdersResponse, error) {
	if len(req.OrderIDs) == 0 {
		return nil, shared.NewDomainError("NO_ORDERS_SELECTED", "At least one order must be selected")
	}

	orders, err := s.orderRepo.FindByIDs(ctx, req.OrderIDs)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(orders))
	resp := &InvoiceOrdersResponse{
		Invoiced: make([]OrderResponse, 0, len(orders)),
		Skipped:  make([]uuid.UUID, 0),
	}

	for i := range orders {
		order := &orders[i]
		found[order.ID] = true
		if order.Status != sales.OrderStatusPending {
			resp.Skipped = append(resp.Skipped, order.ID)
			continue
		}

		invoiceNumber, err := s.orderRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}
		if err := order.Invoice(invoiceNumber); err != nil {
			return nil, err
		}
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, order)
		resp.Invoiced = append(resp.Invoiced, ToOrderResponse(order))
	}

	// Unknown IDs are reported as skipped too
	for _, id := range req.OrderIDs {
		if !found[id] {
			resp.Skipped = append(resp.Skipped, id)
		}
	}

	s.logger.Info("orders invoiced",
		zap.Int("invoiced", len(resp.Invoiced)),
		zap.Int("skipped", len(resp.Skipped)))

	if len(resp.Invoiced) > 0 {
		entry := activity.NewEntry(uuid.Nil, "", activity.ActionOrdersInvoiced,
			fmt.Sprintf("%d orders invoiced", len(resp.Invoiced)))
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.logger.Warn("failed to record activity", zap.Error(err))
		}
	}

	return resp, nil
}

// InvoiceOrder promotes a single order and fails loudly when it is not
// pending, unlike the bulk path which skips silently
func (s *InvoicingService) InvoiceOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.orderRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	if err := order.Invoice(invoiceNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}
