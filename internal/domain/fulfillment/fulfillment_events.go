package fulfillment

import (
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for load sheets
const (
	EventTypeLoadSheetCreated      = "fulfillment.loadsheet.created"
	EventTypeLoadSheetDispatched   = "fulfillment.loadsheet.dispatched"
	EventTypeLoadSheetCompleted    = "fulfillment.loadsheet.completed"
	EventTypeLoadSheetItemReturned = "fulfillment.loadsheet.item_returned"
)

// LoadSheetCreatedEvent is raised when the fulfillment engine produces a
// new load sheet
type LoadSheetCreatedEvent struct {
	shared.BaseDomainEvent
	AssignedTo string `json:"assigned_to"`
	OrderCount int    `json:"order_count"`
	ItemCount  int    `json:"item_count"`
}

// NewLoadSheetCreatedEvent creates a new LoadSheetCreatedEvent
func NewLoadSheetCreatedEvent(sheet *LoadSheet) *LoadSheetCreatedEvent {
	return &LoadSheetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadSheetCreated, "LoadSheet", sheet.ID),
		AssignedTo:      sheet.AssignedTo.String(),
		OrderCount:      len(sheet.RelatedOrders),
		ItemCount:       len(sheet.Items),
	}
}

// LoadSheetDispatchedEvent is raised when a sheet goes out for delivery
type LoadSheetDispatchedEvent struct {
	shared.BaseDomainEvent
	AssignedTo string `json:"assigned_to"`
}

// NewLoadSheetDispatchedEvent creates a new LoadSheetDispatchedEvent
func NewLoadSheetDispatchedEvent(sheet *LoadSheet) *LoadSheetDispatchedEvent {
	return &LoadSheetDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadSheetDispatched, "LoadSheet", sheet.ID),
		AssignedTo:      sheet.AssignedTo.String(),
	}
}

// LoadSheetCompletedEvent is raised when every item on a sheet has a
// terminal delivery outcome
type LoadSheetCompletedEvent struct {
	shared.BaseDomainEvent
	ItemCount int `json:"item_count"`
}

// NewLoadSheetCompletedEvent creates a new LoadSheetCompletedEvent
func NewLoadSheetCompletedEvent(sheet *LoadSheet) *LoadSheetCompletedEvent {
	return &LoadSheetCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadSheetCompleted, "LoadSheet", sheet.ID),
		ItemCount:       len(sheet.Items),
	}
}

// LoadSheetItemReturnedEvent is raised when a return is booked against a
// sheet item
type LoadSheetItemReturnedEvent struct {
	shared.BaseDomainEvent
	OrderID          string          `json:"order_id"`
	SKUID            string          `json:"sku_id"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// NewLoadSheetItemReturnedEvent creates a new LoadSheetItemReturnedEvent
func NewLoadSheetItemReturnedEvent(sheet *LoadSheet, item *LoadSheetItem, quantity decimal.Decimal) *LoadSheetItemReturnedEvent {
	return &LoadSheetItemReturnedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLoadSheetItemReturned, "LoadSheet", sheet.ID),
		OrderID:          item.OrderID.String(),
		SKUID:            item.SKUID.String(),
		ReturnedQuantity: quantity,
	}
}
