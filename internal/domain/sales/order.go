package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an outlet order
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "Pending"
	OrderStatusInvoiced           OrderStatus = "Invoiced"
	OrderStatusFulfilled          OrderStatus = "Fulfilled"
	OrderStatusPartiallyFulfilled OrderStatus = "Partially Fulfilled"
	OrderStatusPartiallyReturned  OrderStatus = "Partially Returned"
	OrderStatusReturned           OrderStatus = "Returned"
	OrderStatusCancelled          OrderStatus = "Cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInvoiced, OrderStatusFulfilled,
		OrderStatusPartiallyFulfilled, OrderStatusPartiallyReturned,
		OrderStatusReturned, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusInvoiced || target == OrderStatusCancelled
	case OrderStatusInvoiced:
		return target == OrderStatusFulfilled || target == OrderStatusPartiallyFulfilled ||
			target == OrderStatusCancelled
	case OrderStatusFulfilled, OrderStatusPartiallyFulfilled:
		return target == OrderStatusPartiallyReturned || target == OrderStatusReturned
	case OrderStatusPartiallyReturned:
		return target == OrderStatusReturned
	case OrderStatusReturned, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a requested line in an order, priced at order time
type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	SKUID    uuid.UUID
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// FulfilledItem records the lot-level allocation result for an order line.
// Price is always the batch price, not the price at order time.
type FulfilledItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	SKUID    uuid.UUID
	Quantity decimal.Decimal
	BatchID  uuid.UUID
	Price    decimal.Decimal
}

// Order is the aggregate root for an outlet order from placement through
// invoicing, fulfillment and return
type Order struct {
	shared.BaseAggregateRoot
	OutletID       uuid.UUID
	UserID         uuid.UUID // placing rep
	OrderDate      time.Time
	Items          []OrderItem     `gorm:"foreignKey:OrderID"`
	FulfilledItems []FulfilledItem `gorm:"foreignKey:OrderID"`
	Status         OrderStatus
	InvoiceID      string
	CancelReason   string
}

// NewOrder creates a new pending order
func NewOrder(outletID, userID uuid.UUID, orderDate time.Time) (*Order, error) {
	if outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OUTLET", "Outlet ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OutletID:          outletID,
		UserID:            userID,
		OrderDate:         orderDate,
		Items:             make([]OrderItem, 0),
		FulfilledItems:    make([]FulfilledItem, 0),
		Status:            OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a requested line to the order. Only allowed while Pending.
func (o *Order) AddItem(skuID uuid.UUID, quantity, price decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if skuID == uuid.Nil {
		return shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	for i := range o.Items {
		if o.Items[i].SKUID == skuID {
			return shared.NewDomainError("DUPLICATE_SKU", "SKU already exists in order")
		}
	}

	o.Items = append(o.Items, OrderItem{
		ID:       uuid.New(),
		OrderID:  o.ID,
		SKUID:    skuID,
		Quantity: quantity,
		Price:    price,
	})
	o.UpdatedAt = time.Now()

	return nil
}

// Invoice promotes a pending order to Invoiced, assigning the invoice number
func (o *Order) Invoice(invoiceID string) error {
	if !o.Status.CanTransitionTo(OrderStatusInvoiced) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot invoice order without items")
	}
	if invoiceID == "" {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	o.Status = OrderStatusInvoiced
	o.InvoiceID = invoiceID
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderInvoicedEvent(o))

	return nil
}

// ApplyFulfillment attaches the allocation result and derives the order
// status: Fulfilled when total fulfilled covers total requested, else
// Partially Fulfilled. The fulfilled quantity per SKU may never exceed the
// requested quantity.
func (o *Order) ApplyFulfillment(fulfilled []FulfilledItem) error {
	if o.Status != OrderStatusInvoiced {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fulfill order in %s status", o.Status))
	}

	requestedBySKU := make(map[uuid.UUID]decimal.Decimal, len(o.Items))
	for _, item := range o.Items {
		requestedBySKU[item.SKUID] = requestedBySKU[item.SKUID].Add(item.Quantity)
	}
	fulfilledBySKU := make(map[uuid.UUID]decimal.Decimal, len(fulfilled))
	for _, fi := range fulfilled {
		fulfilledBySKU[fi.SKUID] = fulfilledBySKU[fi.SKUID].Add(fi.Quantity)
	}
	for skuID, qty := range fulfilledBySKU {
		if qty.GreaterThan(requestedBySKU[skuID]) {
			return shared.NewDomainError("OVER_FULFILLMENT", "Fulfilled quantity exceeds requested quantity")
		}
	}

	totalRequested := decimal.Zero
	for _, item := range o.Items {
		totalRequested = totalRequested.Add(item.Quantity)
	}
	totalFulfilled := decimal.Zero
	for _, fi := range fulfilled {
		totalFulfilled = totalFulfilled.Add(fi.Quantity)
	}

	o.FulfilledItems = make([]FulfilledItem, 0, len(fulfilled))
	for _, fi := range fulfilled {
		fi.ID = uuid.New()
		fi.OrderID = o.ID
		o.FulfilledItems = append(o.FulfilledItems, fi)
	}

	if totalFulfilled.GreaterThanOrEqual(totalRequested) {
		o.Status = OrderStatusFulfilled
	} else {
		o.Status = OrderStatusPartiallyFulfilled
	}
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderFulfilledEvent(o, totalRequested, totalFulfilled))

	return nil
}

// RevertFulfillment detaches the allocation result and puts the order back
// into Invoiced. Used when a load sheet is cancelled before any delivery
// outcome was recorded.
func (o *Order) RevertFulfillment() error {
	if o.Status != OrderStatusFulfilled && o.Status != OrderStatusPartiallyFulfilled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revert fulfillment of order in %s status", o.Status))
	}
	o.FulfilledItems = make([]FulfilledItem, 0)
	o.Status = OrderStatusInvoiced
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPartiallyReturned flips the order into the partially-returned state
// after a return was booked against any of its lines
func (o *Order) MarkPartiallyReturned() error {
	if o.Status == OrderStatusPartiallyReturned {
		return nil
	}
	if !o.Status.CanTransitionTo(OrderStatusPartiallyReturned) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order returned in %s status", o.Status))
	}
	o.Status = OrderStatusPartiallyReturned
	o.UpdatedAt = time.Now()
	return nil
}

// MarkReturned moves the order into the terminal Returned state once every
// line has come back
func (o *Order) MarkReturned() error {
	if o.Status == OrderStatusReturned {
		return nil
	}
	if !o.Status.CanTransitionTo(OrderStatusReturned) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order returned in %s status", o.Status))
	}
	o.Status = OrderStatusReturned
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderReturnedEvent(o))

	return nil
}

// Cancel cancels the order. Allowed only before fulfillment.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// TotalRequestedQuantity returns the sum of all requested line quantities
func (o *Order) TotalRequestedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalFulfilledQuantity returns the sum of all fulfilled quantities
func (o *Order) TotalFulfilledQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, fi := range o.FulfilledItems {
		total = total.Add(fi.Quantity)
	}
	return total
}

// RequestedQuantityForSKU returns the requested quantity for one SKU
func (o *Order) RequestedQuantityForSKU(skuID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.SKUID == skuID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// FulfilledQuantityForSKU returns the fulfilled quantity for one SKU
func (o *Order) FulfilledQuantityForSKU(skuID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, fi := range o.FulfilledItems {
		if fi.SKUID == skuID {
			total = total.Add(fi.Quantity)
		}
	}
	return total
}

// TotalAmount returns the order value at order-time prices
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity.Mul(item.Price))
	}
	return total
}

// IsInvoiced returns true if the order is invoiced and awaiting fulfillment
func (o *Order) IsInvoiced() bool {
	return o.Status == OrderStatusInvoiced
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusReturned || o.Status == OrderStatusCancelled
}
