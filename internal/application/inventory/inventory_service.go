package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService manages SKUs and batch-level stock receipts
type InventoryService struct {
	skuRepo        inventory.SKURepository
	recorder       activity.Recorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(skuRepo inventory.SKURepository, recorder activity.Recorder, logger *zap.Logger) *InventoryService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		skuRepo:  skuRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents drains and publishes the aggregate's pending domain events.
// Publishing is best-effort after a successful save.
func (s *InventoryService) publishEvents(ctx context.Context, sku *inventory.SKU) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, sku.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	sku.ClearDomainEvents()
}

// CreateSKU registers a new SKU with zero stock
func (s *InventoryService) CreateSKU(ctx context.Context, req CreateSKURequest) (*SKUResponse, error) {
	sku, err := inventory.NewSKU(req.Name, req.Description, req.Category)
	if err != nil {
		return nil, err
	}
	if err := s.skuRepo.Save(ctx, sku); err != nil {
		return nil, err
	}

	s.logger.Info("sku created", zap.String("sku_id", sku.ID.String()), zap.String("name", sku.Name))
	s.publishEvents(ctx, sku)

	resp := ToSKUResponse(sku)
	return &resp, nil
}

// ReceiveBatch books a new lot against a SKU and credits its stock
func (s *InventoryService) ReceiveBatch(ctx context.Context, skuID uuid.UUID, req ReceiveBatchRequest) (*SKUResponse, error) {
	sku, err := s.skuRepo.FindByID(ctx, skuID)
	if err != nil {
		return nil, err
	}
	batch, err := sku.ReceiveBatch(req.BatchNumber, req.Quantity, req.Price, req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if err := s.skuRepo.SaveWithLock(ctx, sku); err != nil {
		return nil, err
	}

	s.logger.Info("batch received",
		zap.String("sku_id", sku.ID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.String("quantity", batch.Quantity.String()))
	s.publishEvents(ctx, sku)

	entry := activity.NewEntry(uuid.Nil, "", activity.ActionBatchReceived,
		fmt.Sprintf("Batch %s of %s received (%s units)", batch.BatchNumber, sku.Name, batch.Quantity))
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
	}

	resp := ToSKUResponse(sku)
	return &resp, nil
}

// GetByID retrieves a SKU with its batches
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*SKUResponse, error) {
	sku, err := s.skuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSKUResponse(sku)
	return &resp, nil
}

// GetByBatch traces a batch back to its owning SKU
func (s *InventoryService) GetByBatch(ctx context.Context, batchID uuid.UUID) (*SKUResponse, error) {
	sku, err := s.skuRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToSKUResponse(sku)
	return &resp, nil
}

// List retrieves SKUs with filtering and pagination
func (s *InventoryService) List(ctx context.Context, filter SKUListFilter) (*shared.Paginated[SKUResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	repoFilter := shared.DefaultFilter()
	repoFilter.Page = filter.Page
	repoFilter.PageSize = filter.PageSize
	repoFilter.Search = filter.Search

	skus, err := s.skuRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.skuRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]SKUResponse, 0, len(skus))
	for i := range skus {
		items = append(items, ToSKUResponse(&skus[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
