package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	domainfulfillment "github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnPolicy controls how a return on one sheet line affects the owning
// order's status
type ReturnPolicy struct {
	// FlipOrderOnAnyReturn moves the order to Partially Returned as soon as
	// any quantity comes back, and to Returned once every line of the order
	// on the sheet is fully returned
	FlipOrderOnAnyReturn bool
}

// DefaultReturnPolicy returns the default policy
func DefaultReturnPolicy() ReturnPolicy {
	return ReturnPolicy{FlipOrderOnAnyReturn: true}
}

// ReconciliationService books delivery outcomes against load sheet items:
// deliveries, and returns that credit stock back to the originating batches
// and roll the order status forward.
type ReconciliationService struct {
	scope          TransactionScope
	policy         ReturnPolicy
	recorder       activity.Recorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(scope TransactionScope, policy ReturnPolicy, recorder activity.Recorder, logger *zap.Logger) *ReconciliationService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		scope:    scope,
		policy:   policy,
		recorder: recorder,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration
func (s *ReconciliationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReconciliationService) publishEvents(ctx context.Context, sheet *domainfulfillment.LoadSheet) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, sheet.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	sheet.ClearDomainEvents()
}

// UpdateItemStatus records a delivery outcome for one (order, SKU) line on a
// load sheet. Deliveries are idempotent. Returns are clamped to the
// fulfilled quantity, credit stock back to the source batches and derive the
// order status per the configured policy. The sheet transitions to Completed
// once every line has an outcome.
func (s *ReconciliationService) UpdateItemStatus(ctx context.Context, sheetID uuid.UUID, req UpdateItemStatusRequest) (*LoadSheetResponse, error) {
	status := domainfulfillment.DeliveryStatus(req.Status)
	if status != domainfulfillment.DeliveryStatusDelivered && status != domainfulfillment.DeliveryStatusReturned {
		return nil, shared.NewDomainError("INVALID_STATUS", "Status must be Delivered or Returned")
	}

	var resp LoadSheetResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sheet, err := repos.LoadSheetRepo().FindByID(ctx, sheetID)
		if err != nil {
			return shared.NewDomainError("LOAD_SHEET_NOT_FOUND", "Load sheet not found")
		}
		item := sheet.Item(req.OrderID, req.SKUID)
		if item == nil {
			return domainfulfillment.ErrItemNotFound
		}

		switch status {
		case domainfulfillment.DeliveryStatusDelivered:
			if _, err := sheet.MarkItemDelivered(req.OrderID, req.SKUID); err != nil {
				return err
			}
		case domainfulfillment.DeliveryStatusReturned:
			if err := s.applyReturn(ctx, repos, sheet, req); err != nil {
				return err
			}
		}

		completed := sheet.RefreshCompletion()
		if err := repos.LoadSheetRepo().SaveWithLock(ctx, sheet); err != nil {
			return err
		}
		if completed {
			if err := s.closeReturnedOrders(ctx, repos, sheet); err != nil {
				return err
			}
		}
		s.publishEvents(ctx, sheet)
		resp = ToLoadSheetResponse(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery outcome recorded",
		zap.String("load_sheet_id", sheetID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("sku_id", req.SKUID.String()),
		zap.String("status", req.Status))

	action := activity.ActionDeliveryRecorded
	if status == domainfulfillment.DeliveryStatusReturned {
		action = activity.ActionReturnRecorded
	}
	entry := activity.NewEntry(uuid.Nil, "", action,
		fmt.Sprintf("Item %s of order %s marked %s on sheet %s", req.SKUID, req.OrderID, req.Status, sheetID))
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
	}

	return &resp, nil
}

// applyReturn books the return on the sheet, credits the ledger and rolls
// the owning order's status forward
func (s *ReconciliationService) applyReturn(ctx context.Context, repos TransactionalRepositories, sheet *domainfulfillment.LoadSheet, req UpdateItemStatusRequest) error {
	item := sheet.Item(req.OrderID, req.SKUID)

	quantity := item.RemainingReturnable()
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	credits, err := sheet.MarkItemReturned(req.OrderID, req.SKUID, quantity)
	if err != nil {
		return err
	}

	if len(credits) > 0 {
		sku, err := repos.SKURepo().FindByID(ctx, req.SKUID)
		if err != nil {
			return err
		}
		for _, credit := range credits {
			if err := sku.CreditBatch(credit.BatchID, credit.Quantity); err != nil {
				return err
			}
		}
		if err := repos.SKURepo().SaveWithLock(ctx, sku); err != nil {
			return err
		}
	}

	order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
	if err != nil {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	// The terminal Returned status is only derived at sheet completion; until
	// then any returned quantity holds the order at Partially Returned
	if s.policy.FlipOrderOnAnyReturn {
		if err := order.MarkPartiallyReturned(); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
	}

	return nil
}

// closeReturnedOrders promotes every related order whose lines on the sheet
// all came back in full to the terminal Returned status. Runs once, when the
// sheet completes.
func (s *ReconciliationService) closeReturnedOrders(ctx context.Context, repos TransactionalRepositories, sheet *domainfulfillment.LoadSheet) error {
	for _, orderID := range sheet.RelatedOrders {
		if !sheet.IsOrderFullyReturned(orderID) {
			continue
		}
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		if err := order.MarkReturned(); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
	}
	return nil
}
