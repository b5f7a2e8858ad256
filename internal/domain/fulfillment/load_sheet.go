package fulfillment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LoadSheetStatus represents the status of a load sheet
type LoadSheetStatus string

const (
	LoadSheetStatusLoaded         LoadSheetStatus = "Loaded"
	LoadSheetStatusOutForDelivery LoadSheetStatus = "Out for Delivery"
	LoadSheetStatusCompleted      LoadSheetStatus = "Completed"
	LoadSheetStatusCancelled      LoadSheetStatus = "Cancelled"
)

// IsValid checks if the status is a valid LoadSheetStatus
func (s LoadSheetStatus) IsValid() bool {
	switch s {
	case LoadSheetStatusLoaded, LoadSheetStatusOutForDelivery,
		LoadSheetStatusCompleted, LoadSheetStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s LoadSheetStatus) String() string {
	return string(s)
}

// DeliveryStatus represents the per-item delivery state on a load sheet
type DeliveryStatus string

const (
	DeliveryStatusPending           DeliveryStatus = "Pending"
	DeliveryStatusDelivered         DeliveryStatus = "Delivered"
	DeliveryStatusReturned          DeliveryStatus = "Returned"
	DeliveryStatusPartiallyReturned DeliveryStatus = "Partially Returned"
)

// IsTerminal reports whether the per-item state needs no further action
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusReturned ||
		s == DeliveryStatusPartiallyReturned
}

// String returns the string representation
func (s DeliveryStatus) String() string {
	return string(s)
}

// BatchAllocation records one batch's contribution to a load sheet item,
// preserving lot traceability when several batches satisfy one order line.
type BatchAllocation struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	Quantity         decimal.Decimal `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// BatchCredit is a pending stock credit produced by a return, attributing
// the returned quantity to the batch it was originally drawn from
type BatchCredit struct {
	BatchID  uuid.UUID
	Quantity decimal.Decimal
}

// LoadSheetItem is one (order, SKU) line on a load sheet. Sources holds the
// ordered batch-level breakdown; BatchID mirrors the last contributing batch
// for display compatibility.
type LoadSheetItem struct {
	ID                uuid.UUID
	LoadSheetID       uuid.UUID
	OrderID           uuid.UUID
	SKUID             uuid.UUID
	RequestedQuantity decimal.Decimal
	FulfilledQuantity decimal.Decimal
	BatchID           uuid.UUID
	Sources           []BatchAllocation `gorm:"serializer:json"`
	DeliveryStatus    DeliveryStatus
	ReturnedQuantity  decimal.Decimal
}

// RemainingReturnable returns how much of the fulfilled quantity can still
// come back
func (i *LoadSheetItem) RemainingReturnable() decimal.Decimal {
	return i.FulfilledQuantity.Sub(i.ReturnedQuantity)
}

// LoadSheet is the aggregate root for a delivery manifest grouping the
// batch-level allocations of one or more invoiced orders
type LoadSheet struct {
	shared.BaseAggregateRoot
	CreationDate  time.Time
	AssignedTo    uuid.UUID
	AssigneeName  string
	Status        LoadSheetStatus
	RelatedOrders []uuid.UUID     `gorm:"serializer:json"`
	Items         []LoadSheetItem `gorm:"foreignKey:LoadSheetID"`
}

// NewLoadSheet creates a loaded sheet from an allocation result
func NewLoadSheet(assignedTo uuid.UUID, assigneeName string, relatedOrders []uuid.UUID, items []LoadSheetItem) (*LoadSheet, error) {
	if assignedTo == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee cannot be empty")
	}
	if len(relatedOrders) == 0 {
		return nil, shared.NewDomainError("NO_ORDERS", "Load sheet requires at least one related order")
	}

	sheet := &LoadSheet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreationDate:      time.Now(),
		AssignedTo:        assignedTo,
		AssigneeName:      assigneeName,
		Status:            LoadSheetStatusLoaded,
		RelatedOrders:     relatedOrders,
		Items:             make([]LoadSheetItem, 0, len(items)),
	}
	for _, item := range items {
		item.ID = uuid.New()
		item.LoadSheetID = sheet.ID
		if item.DeliveryStatus == "" {
			item.DeliveryStatus = DeliveryStatusPending
		}
		sheet.Items = append(sheet.Items, item)
	}

	sheet.AddDomainEvent(NewLoadSheetCreatedEvent(sheet))

	return sheet, nil
}

// Item returns the line keyed by (orderID, skuID), or nil
func (s *LoadSheet) Item(orderID, skuID uuid.UUID) *LoadSheetItem {
	for i := range s.Items {
		if s.Items[i].OrderID == orderID && s.Items[i].SKUID == skuID {
			return &s.Items[i]
		}
	}
	return nil
}

// ItemsForOrder returns all lines belonging to one order
func (s *LoadSheet) ItemsForOrder(orderID uuid.UUID) []LoadSheetItem {
	items := make([]LoadSheetItem, 0)
	for _, item := range s.Items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items
}

// Dispatch moves the sheet out for delivery
func (s *LoadSheet) Dispatch() error {
	if s.Status != LoadSheetStatusLoaded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispatch load sheet in %s status", s.Status))
	}
	s.Status = LoadSheetStatusOutForDelivery
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewLoadSheetDispatchedEvent(s))

	return nil
}

// Cancel cancels the sheet before any delivery outcome is booked
func (s *LoadSheet) Cancel() error {
	if s.Status != LoadSheetStatusLoaded && s.Status != LoadSheetStatusOutForDelivery {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel load sheet in %s status", s.Status))
	}
	for _, item := range s.Items {
		if item.DeliveryStatus != DeliveryStatusPending {
			return shared.NewDomainError("INVALID_STATE", "Cannot cancel load sheet with recorded delivery outcomes")
		}
	}
	s.Status = LoadSheetStatusCancelled
	s.UpdatedAt = time.Now()
	return nil
}

// MarkItemDelivered sets the item's delivery status. Calling it on an
// already delivered item is a no-op; the returned flag reports whether
// anything changed.
func (s *LoadSheet) MarkItemDelivered(orderID, skuID uuid.UUID) (bool, error) {
	if s.Status == LoadSheetStatusCancelled {
		return false, shared.NewDomainError("INVALID_STATE", "Load sheet is cancelled")
	}
	item := s.Item(orderID, skuID)
	if item == nil {
		return false, ErrItemNotFound
	}
	if item.DeliveryStatus == DeliveryStatusDelivered {
		return false, nil
	}
	if item.DeliveryStatus != DeliveryStatusPending {
		return false, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver item in %s status", item.DeliveryStatus))
	}
	item.DeliveryStatus = DeliveryStatusDelivered
	s.UpdatedAt = time.Now()
	return true, nil
}

// MarkItemReturned books a return against the item. The requested quantity
// is clamped so returnedQuantity never exceeds fulfilledQuantity, and the
// clamped amount is attributed back to the contributing batches in reverse
// allocation order. The resulting credits must be applied to the inventory
// ledger by the caller within the same transaction.
func (s *LoadSheet) MarkItemReturned(orderID, skuID uuid.UUID, quantity decimal.Decimal) ([]BatchCredit, error) {
	if s.Status == LoadSheetStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Load sheet is cancelled")
	}
	item := s.Item(orderID, skuID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.DeliveryStatus == DeliveryStatusReturned {
		// Fully returned already, nothing left to credit
		return []BatchCredit{}, nil
	}
	if item.FulfilledQuantity.IsZero() {
		// Nothing was loaded for this line; closing it yields no credits
		item.DeliveryStatus = DeliveryStatusReturned
		s.UpdatedAt = time.Now()
		return []BatchCredit{}, nil
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	returnQty := decimal.Min(quantity, item.RemainingReturnable())
	if returnQty.LessThanOrEqual(decimal.Zero) {
		return []BatchCredit{}, nil
	}

	// Attribute the return to sources latest-first so the earliest-expiry
	// lots stay consumed
	credits := make([]BatchCredit, 0, len(item.Sources))
	remaining := returnQty
	for i := len(item.Sources) - 1; i >= 0 && remaining.GreaterThan(decimal.Zero); i-- {
		src := &item.Sources[i]
		available := src.Quantity.Sub(src.ReturnedQuantity)
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(available, remaining)
		src.ReturnedQuantity = src.ReturnedQuantity.Add(take)
		credits = append(credits, BatchCredit{BatchID: src.BatchID, Quantity: take})
		remaining = remaining.Sub(take)
	}

	item.ReturnedQuantity = item.ReturnedQuantity.Add(returnQty)
	if item.ReturnedQuantity.Equal(item.FulfilledQuantity) {
		item.DeliveryStatus = DeliveryStatusReturned
	} else {
		item.DeliveryStatus = DeliveryStatusPartiallyReturned
	}
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewLoadSheetItemReturnedEvent(s, item, returnQty))

	return credits, nil
}

// AllItemsTerminal reports whether every line has a delivery outcome
func (s *LoadSheet) AllItemsTerminal() bool {
	for _, item := range s.Items {
		if !item.DeliveryStatus.IsTerminal() {
			return false
		}
	}
	return true
}

// RefreshCompletion transitions the sheet to Completed once every item has
// reached a terminal per-item state. Returns true when the sheet completed
// during this call.
func (s *LoadSheet) RefreshCompletion() bool {
	if s.Status != LoadSheetStatusLoaded && s.Status != LoadSheetStatusOutForDelivery {
		return false
	}
	if !s.AllItemsTerminal() {
		return false
	}
	s.Status = LoadSheetStatusCompleted
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewLoadSheetCompletedEvent(s))

	return true
}

// IsOrderFullyReturned reports whether every line of the order on this
// sheet came back in full
func (s *LoadSheet) IsOrderFullyReturned(orderID uuid.UUID) bool {
	items := s.ItemsForOrder(orderID)
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.DeliveryStatus != DeliveryStatusReturned {
			return false
		}
	}
	return true
}

// OrderHasReturns reports whether any line of the order on this sheet has a
// returned quantity
func (s *LoadSheet) OrderHasReturns(orderID uuid.UUID) bool {
	for _, item := range s.ItemsForOrder(orderID) {
		if item.ReturnedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
