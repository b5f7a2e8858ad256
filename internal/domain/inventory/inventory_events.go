package inventory

import (
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory ledger
const (
	EventTypeSKUCreated    = "inventory.sku.created"
	EventTypeBatchReceived = "inventory.batch.received"
	EventTypeStockDebited  = "inventory.stock.debited"
	EventTypeStockCredited = "inventory.stock.credited"
)

// SKUCreatedEvent is raised when a new SKU is registered
type SKUCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewSKUCreatedEvent creates a new SKUCreatedEvent
func NewSKUCreatedEvent(sku *SKU) *SKUCreatedEvent {
	return &SKUCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSKUCreated, "SKU", sku.ID),
		Name:            sku.Name,
		Category:        sku.Category,
	}
}

// BatchReceivedEvent is raised when a batch is received into stock
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// NewBatchReceivedEvent creates a new BatchReceivedEvent
func NewBatchReceivedEvent(sku *SKU, batch *Batch) *BatchReceivedEvent {
	return &BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReceived, "SKU", sku.ID),
		BatchID:         batch.ID.String(),
		BatchNumber:     batch.BatchNumber,
		Quantity:        batch.Quantity,
		Price:           batch.Price,
	}
}

// StockDebitedEvent is raised when batch stock is allocated out
type StockDebitedEvent struct {
	shared.BaseDomainEvent
	BatchID        string          `json:"batch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
}

// NewStockDebitedEvent creates a new StockDebitedEvent
func NewStockDebitedEvent(sku *SKU, batch *Batch, quantity decimal.Decimal) *StockDebitedEvent {
	return &StockDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDebited, "SKU", sku.ID),
		BatchID:         batch.ID.String(),
		Quantity:        quantity,
		RemainingStock:  sku.Stock,
	}
}

// StockCreditedEvent is raised when returned stock is credited back
type StockCreditedEvent struct {
	shared.BaseDomainEvent
	BatchID        string          `json:"batch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
}

// NewStockCreditedEvent creates a new StockCreditedEvent
func NewStockCreditedEvent(sku *SKU, batch *Batch, quantity decimal.Decimal) *StockCreditedEvent {
	return &StockCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCredited, "SKU", sku.ID),
		BatchID:         batch.ID.String(),
		Quantity:        quantity,
		RemainingStock:  sku.Stock,
	}
}
