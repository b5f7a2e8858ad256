package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SKU is the aggregate root for a sellable product and its batch-level stock.
// Stock is kept denormalized and must equal the sum of all batch quantities;
// every mutation goes through the aggregate so the two cannot drift.
type SKU struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Category    string
	Stock       decimal.Decimal
	Batches     []Batch `gorm:"foreignKey:SKUID"`
}

// NewSKU creates a new SKU with zero stock
func NewSKU(name, description, category string) (*SKU, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "SKU name cannot be empty")
	}
	sku := &SKU{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Category:          category,
		Stock:             decimal.Zero,
		Batches:           make([]Batch, 0),
	}
	sku.AddDomainEvent(NewSKUCreatedEvent(sku))
	return sku, nil
}

// ReceiveBatch records an inventory receipt: a new batch is added and the
// aggregate stock is credited by the batch quantity.
func (s *SKU) ReceiveBatch(batchNumber string, quantity, price decimal.Decimal, expiryDate time.Time) (*Batch, error) {
	for i := range s.Batches {
		if s.Batches[i].BatchNumber == batchNumber {
			return nil, shared.NewDomainError("DUPLICATE_BATCH", "Batch number already exists for this SKU")
		}
	}

	batch, err := NewBatch(s.ID, batchNumber, quantity, price, expiryDate)
	if err != nil {
		return nil, err
	}

	s.Batches = append(s.Batches, *batch)
	s.Stock = s.Stock.Add(quantity)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewBatchReceivedEvent(s, batch))

	return batch, nil
}

// GetBatch returns a batch by its ID
func (s *SKU) GetBatch(batchID uuid.UUID) *Batch {
	for i := range s.Batches {
		if s.Batches[i].ID == batchID {
			return &s.Batches[i]
		}
	}
	return nil
}

// AvailableBatches returns batches with remaining quantity ordered
// earliest-expiry-first. Ties are broken by creation time, then by ID,
// so the order is stable across invocations.
func (s *SKU) AvailableBatches() []Batch {
	available := make([]Batch, 0, len(s.Batches))
	for _, b := range s.Batches {
		if b.HasStock() {
			available = append(available, b)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		if !available[i].ExpiryDate.Equal(available[j].ExpiryDate) {
			return available[i].ExpiryDate.Before(available[j].ExpiryDate)
		}
		if !available[i].CreatedAt.Equal(available[j].CreatedAt) {
			return available[i].CreatedAt.Before(available[j].CreatedAt)
		}
		return available[i].ID.String() < available[j].ID.String()
	})
	return available
}

// DebitBatch removes quantity from a batch and the aggregate stock together.
// Fails with INSUFFICIENT_STOCK when the batch cannot cover the quantity.
func (s *SKU) DebitBatch(batchID uuid.UUID, quantity decimal.Decimal) error {
	batch := s.GetBatch(batchID)
	if batch == nil {
		return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found on SKU")
	}
	if err := batch.Debit(quantity); err != nil {
		return err
	}
	s.Stock = s.Stock.Sub(quantity)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewStockDebitedEvent(s, batch, quantity))

	return nil
}

// CreditBatch restores quantity to a batch and the aggregate stock together
// (used on returns). The ledger imposes no upper bound; clamping is the
// reconciliation layer's responsibility.
func (s *SKU) CreditBatch(batchID uuid.UUID, quantity decimal.Decimal) error {
	batch := s.GetBatch(batchID)
	if batch == nil {
		return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found on SKU")
	}
	if err := batch.Credit(quantity); err != nil {
		return err
	}
	s.Stock = s.Stock.Add(quantity)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewStockCreditedEvent(s, batch, quantity))

	return nil
}

// TotalBatchQuantity returns the sum of all batch quantities.
// Invariant: always equal to Stock.
func (s *SKU) TotalBatchQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// AvailableQuantity returns the total quantity across non-empty batches
func (s *SKU) AvailableQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Batches {
		if b.HasStock() {
			total = total.Add(b.Quantity)
		}
	}
	return total
}
