package sales

import (
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for orders
const (
	EventTypeOrderCreated   = "sales.order.created"
	EventTypeOrderInvoiced  = "sales.order.invoiced"
	EventTypeOrderFulfilled = "sales.order.fulfilled"
	EventTypeOrderReturned  = "sales.order.returned"
	EventTypeOrderCancelled = "sales.order.cancelled"
)

// OrderCreatedEvent is raised when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OutletID string `json:"outlet_id"`
	UserID   string `json:"user_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", order.ID),
		OutletID:        order.OutletID.String(),
		UserID:          order.UserID.String(),
	}
}

// OrderInvoicedEvent is raised when an order is promoted to Invoiced
type OrderInvoicedEvent struct {
	shared.BaseDomainEvent
	InvoiceID string `json:"invoice_id"`
}

// NewOrderInvoicedEvent creates a new OrderInvoicedEvent
func NewOrderInvoicedEvent(order *Order) *OrderInvoicedEvent {
	return &OrderInvoicedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderInvoiced, "Order", order.ID),
		InvoiceID:       order.InvoiceID,
	}
}

// OrderFulfilledEvent is raised when the fulfillment engine attaches an
// allocation result to the order
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	Status         string          `json:"status"`
	TotalRequested decimal.Decimal `json:"total_requested"`
	TotalFulfilled decimal.Decimal `json:"total_fulfilled"`
}

// NewOrderFulfilledEvent creates a new OrderFulfilledEvent
func NewOrderFulfilledEvent(order *Order, requested, fulfilled decimal.Decimal) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFulfilled, "Order", order.ID),
		Status:          order.Status.String(),
		TotalRequested:  requested,
		TotalFulfilled:  fulfilled,
	}
}

// OrderReturnedEvent is raised when an order reaches the terminal Returned state
type OrderReturnedEvent struct {
	shared.BaseDomainEvent
}

// NewOrderReturnedEvent creates a new OrderReturnedEvent
func NewOrderReturnedEvent(order *Order) *OrderReturnedEvent {
	return &OrderReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReturned, "Order", order.ID),
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", order.ID),
		Reason:          order.CancelReason,
	}
}
