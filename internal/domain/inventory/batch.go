package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch represents a received lot of a SKU with its own quantity,
// unit price and expiry date
type Batch struct {
	shared.BaseEntity
	SKUID       uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	Price       decimal.Decimal // Unit price for this lot
	ExpiryDate  time.Time
}

// NewBatch creates a new stock batch
func NewBatch(skuID uuid.UUID, batchNumber string, quantity, price decimal.Decimal, expiryDate time.Time) (*Batch, error) {
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Batch price cannot be negative")
	}
	return &Batch{
		BaseEntity:  shared.NewBaseEntity(),
		SKUID:       skuID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		Price:       price,
		ExpiryDate:  expiryDate,
	}, nil
}

// IsExpired returns true if the batch has expired
func (b *Batch) IsExpired() bool {
	return b.ExpiryDate.Before(time.Now())
}

// HasStock returns true if the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// Debit reduces the batch quantity. The quantity may never go negative.
func (b *Batch) Debit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Debit quantity must be positive")
	}
	if quantity.GreaterThan(b.Quantity) {
		return shared.ErrInsufficientStock
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Credit increases the batch quantity (returns or adjustments).
// No upper bound is imposed here; over-return protection is the caller's duty.
func (b *Batch) Credit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Credit quantity must be positive")
	}
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// TotalValue returns the remaining value of this batch
func (b *Batch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.Price)
}
