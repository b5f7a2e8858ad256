package fulfillment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	domainfulfillment "github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FulfillmentService runs the allocation engine: it turns a set of invoiced
// orders into a load sheet, debiting batch stock first-expiry-first.
//
// A single mutex serialises load sheet creation. Allocation reads stock,
// plans against it and writes the result; two concurrent runs over the same
// SKUs would both plan against the same snapshot. The mutex plus the
// surrounding transaction keeps read-plan-write atomic on a single instance;
// optimistic locking on the aggregates backstops multi-instance deployments.
type FulfillmentService struct {
	scope          TransactionScope
	userRepo       identity.UserRepository
	idempotency    shared.IdempotencyStore
	idemConfig     shared.IdempotencyConfig
	recorder       activity.Recorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	mu sync.Mutex
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	scope TransactionScope,
	userRepo identity.UserRepository,
	idempotency shared.IdempotencyStore,
	recorder activity.Recorder,
	logger *zap.Logger,
) *FulfillmentService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FulfillmentService{
		scope:       scope,
		userRepo:    userRepo,
		idempotency: idempotency,
		idemConfig:  shared.DefaultIdempotencyConfig(),
		recorder:    recorder,
		logger:      logger,
	}
}

// SetIdempotencyConfig overrides the default idempotency settings
func (s *FulfillmentService) SetIdempotencyConfig(cfg shared.IdempotencyConfig) {
	s.idemConfig = cfg
}

// SetEventPublisher sets the event publisher for audit and integration
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents drains and publishes the sheet's pending domain events.
// Publishing is best-effort after a successful commit.
func (s *FulfillmentService) publishEvents(ctx context.Context, sheet *domainfulfillment.LoadSheet) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, sheet.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	sheet.ClearDomainEvents()
}

// CreateLoadSheet allocates stock to the requested orders and persists the
// resulting load sheet, the debited SKUs and the updated orders in one
// transaction. Orders that are not in Invoiced status are skipped silently;
// fulfillment itself is best-effort per line.
func (s *FulfillmentService) CreateLoadSheet(ctx context.Context, req CreateLoadSheetRequest) (*LoadSheetResponse, error) {
	if len(req.OrderIDs) == 0 {
		return nil, shared.NewDomainError("NO_ORDERS_SELECTED", "At least one order must be selected")
	}

	assignee, err := s.userRepo.FindByID(ctx, req.AssignedTo)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee not found")
	}
	if !assignee.CanBeAssignedDeliveries() {
		return nil, shared.NewDomainError("INVALID_ASSIGNEE", fmt.Sprintf("Users with role %s cannot be assigned deliveries", assignee.Role))
	}

	if req.IdempotencyKey != "" && s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, "loadsheet:"+req.IdempotencyKey, s.idemConfig.TTL)
		if err != nil {
			s.logger.Warn("idempotency check failed, continuing", zap.Error(err))
		} else if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Load sheet was already created for this request")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sheet *domainfulfillment.LoadSheet
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindByIDs(ctx, req.OrderIDs)
		if err != nil {
			return err
		}

		// Only invoiced orders participate; everything else is skipped
		valid := make([]*sales.Order, 0, len(orders))
		for i := range orders {
			if orders[i].IsInvoiced() {
				valid = append(valid, &orders[i])
			}
		}
		if len(valid) == 0 {
			return shared.NewDomainError("NO_VALID_ORDERS", "None of the selected orders are invoiced")
		}

		skuIDs := make([]uuid.UUID, 0)
		seen := make(map[uuid.UUID]bool)
		for _, order := range valid {
			for _, item := range order.Items {
				if !seen[item.SKUID] {
					seen[item.SKUID] = true
					skuIDs = append(skuIDs, item.SKUID)
				}
			}
		}

		skuList, err := repos.SKURepo().FindByIDs(ctx, skuIDs)
		if err != nil {
			return err
		}
		skus := make(map[uuid.UUID]*inventory.SKU, len(skuList))
		for i := range skuList {
			skus[skuList[i].ID] = &skuList[i]
		}

		plan, err := domainfulfillment.PlanAllocation(valid, skus)
		if err != nil {
			return err
		}

		// Apply the planned debits to the ledger. A plan that allocates
		// nothing still produces a sheet: the shortfall stays on the manifest
		// and the orders become Partially Fulfilled.
		for _, debit := range plan.Debits {
			if err := skus[debit.SKUID].DebitBatch(debit.BatchID, debit.Quantity); err != nil {
				return err
			}
		}
		for _, sku := range skus {
			if err := repos.SKURepo().SaveWithLock(ctx, sku); err != nil {
				return err
			}
		}

		// Attach the allocation result to each order
		orderIDs := make([]uuid.UUID, 0, len(valid))
		for _, order := range valid {
			if err := order.ApplyFulfillment(plan.FulfilledByOrder[order.ID]); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}
			orderIDs = append(orderIDs, order.ID)
		}

		sheet, err = domainfulfillment.NewLoadSheet(assignee.ID, assignee.Name, orderIDs, plan.SheetItems)
		if err != nil {
			return err
		}
		return repos.LoadSheetRepo().Save(ctx, sheet)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sheet)

	s.logger.Info("load sheet created",
		zap.String("load_sheet_id", sheet.ID.String()),
		zap.String("assigned_to", assignee.Name),
		zap.Int("orders", len(sheet.RelatedOrders)),
		zap.Int("items", len(sheet.Items)))

	entry := activity.NewEntry(assignee.ID, assignee.Name, activity.ActionLoadSheetCreated,
		fmt.Sprintf("Load sheet %s created with %d orders", sheet.ID, len(sheet.RelatedOrders)))
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
	}

	resp := ToLoadSheetResponse(sheet)
	return &resp, nil
}

// GetLoadSheet returns one load sheet by ID
func (s *FulfillmentService) GetLoadSheet(ctx context.Context, id uuid.UUID) (*LoadSheetResponse, error) {
	var resp LoadSheetResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sheet, err := repos.LoadSheetRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToLoadSheetResponse(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListLoadSheets returns load sheets matching the filter
func (s *FulfillmentService) ListLoadSheets(ctx context.Context, filter LoadSheetListFilter) (*shared.Paginated[LoadSheetResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	repoFilter := shared.DefaultFilter()
	repoFilter.Page = filter.Page
	repoFilter.PageSize = filter.PageSize

	var result shared.Paginated[LoadSheetResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var (
			sheets []domainfulfillment.LoadSheet
			err    error
		)
		switch {
		case filter.Status != "":
			sheets, err = repos.LoadSheetRepo().FindByStatus(ctx, domainfulfillment.LoadSheetStatus(filter.Status), repoFilter)
		case filter.AssignedTo != uuid.Nil:
			sheets, err = repos.LoadSheetRepo().FindByAssignee(ctx, filter.AssignedTo, repoFilter)
		default:
			sheets, err = repos.LoadSheetRepo().FindAll(ctx, repoFilter)
		}
		if err != nil {
			return err
		}
		total, err := repos.LoadSheetRepo().Count(ctx, repoFilter)
		if err != nil {
			return err
		}
		items := make([]LoadSheetResponse, 0, len(sheets))
		for i := range sheets {
			items = append(items, ToLoadSheetResponse(&sheets[i]))
		}
		result = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DispatchLoadSheet moves a sheet out for delivery
func (s *FulfillmentService) DispatchLoadSheet(ctx context.Context, id uuid.UUID) (*LoadSheetResponse, error) {
	var resp LoadSheetResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sheet, err := repos.LoadSheetRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := sheet.Dispatch(); err != nil {
			return err
		}
		if err := repos.LoadSheetRepo().SaveWithLock(ctx, sheet); err != nil {
			return err
		}
		s.publishEvents(ctx, sheet)
		resp = ToLoadSheetResponse(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelLoadSheet cancels a sheet that has no recorded delivery outcomes
// yet. Allocated stock is credited back to its source batches and the
// affected orders go back to Invoiced.
func (s *FulfillmentService) CancelLoadSheet(ctx context.Context, id uuid.UUID) (*LoadSheetResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resp LoadSheetResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sheet, err := repos.LoadSheetRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := sheet.Cancel(); err != nil {
			return err
		}

		// Credit every allocated quantity back to its source batch
		for _, item := range sheet.Items {
			if !item.FulfilledQuantity.GreaterThan(decimal.Zero) {
				continue
			}
			sku, err := repos.SKURepo().FindByID(ctx, item.SKUID)
			if err != nil {
				return err
			}
			for _, src := range item.Sources {
				if err := sku.CreditBatch(src.BatchID, src.Quantity); err != nil {
					return err
				}
			}
			if err := repos.SKURepo().SaveWithLock(ctx, sku); err != nil {
				return err
			}
		}

		// Put the orders back into the invoiced pool
		for _, orderID := range sheet.RelatedOrders {
			order, err := repos.OrderRepo().FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := order.RevertFulfillment(); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}
		}

		if err := repos.LoadSheetRepo().SaveWithLock(ctx, sheet); err != nil {
			return err
		}
		s.publishEvents(ctx, sheet)
		resp = ToLoadSheetResponse(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("load sheet cancelled", zap.String("load_sheet_id", id.String()))
	return &resp, nil
}
