package fulfillment

import (
	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchDebit is a planned stock deduction against one batch
type BatchDebit struct {
	SKUID    uuid.UUID
	BatchID  uuid.UUID
	Quantity decimal.Decimal
}

// AllocationPlan is the complete outcome of planning fulfillment for a set
// of orders against current stock. It is computed without mutating any
// aggregate; the caller applies it atomically.
type AllocationPlan struct {
	// SheetItems holds one line per (order, SKU) pair, in order encounter
	// order, including lines that could not be fulfilled at all
	SheetItems []LoadSheetItem

	// FulfilledByOrder holds the lot-level allocation per order, merged by
	// (SKU, batch) and priced at the batch price
	FulfilledByOrder map[uuid.UUID][]sales.FulfilledItem

	// Debits holds the planned per-batch stock deductions
	Debits []BatchDebit
}

// TotalFulfilled returns the total quantity the plan allocates across all orders
func (p *AllocationPlan) TotalFulfilled() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.SheetItems {
		total = total.Add(item.FulfilledQuantity)
	}
	return total
}

// HasAllocations reports whether the plan allocates any stock at all
func (p *AllocationPlan) HasAllocations() bool {
	return p.TotalFulfilled().GreaterThan(decimal.Zero)
}

// FulfilledQuantityForOrder returns the total quantity allocated to one order
func (p *AllocationPlan) FulfilledQuantityForOrder(orderID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, fi := range p.FulfilledByOrder[orderID] {
		total = total.Add(fi.Quantity)
	}
	return total
}

// lineDemand tracks one (order, SKU) line's remaining demand during planning
type lineDemand struct {
	orderID   uuid.UUID
	skuID     uuid.UUID
	requested decimal.Decimal
	remaining decimal.Decimal
	sheetIdx  int
}

// PlanAllocation distributes available stock to the given orders using
// first-expiry-first-out batch selection.
//
// Demand is pooled per SKU across all orders, then walked batch by batch in
// expiry order; within each batch the quantity is handed out to order lines
// in the order the orders were passed in. Fulfillment is best-effort: a line
// receives whatever stock remains, possibly spread over several batches,
// possibly nothing. The plan never allocates more than a batch holds and
// never more than a line requested.
func PlanAllocation(orders []*sales.Order, skus map[uuid.UUID]*inventory.SKU) (*AllocationPlan, error) {
	plan := &AllocationPlan{
		SheetItems:       make([]LoadSheetItem, 0),
		FulfilledByOrder: make(map[uuid.UUID][]sales.FulfilledItem, len(orders)),
		Debits:           make([]BatchDebit, 0),
	}

	// Flatten order lines preserving order, group demand per SKU in
	// first-encounter order
	skuOrder := make([]uuid.UUID, 0)
	groups := make(map[uuid.UUID][]*lineDemand)
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := skus[item.SKUID]; !ok {
				return nil, shared.NewDomainError("SKU_NOT_FOUND", "Order references an unknown SKU")
			}
			d := &lineDemand{
				orderID:   order.ID,
				skuID:     item.SKUID,
				requested: item.Quantity,
				remaining: item.Quantity,
				sheetIdx:  len(plan.SheetItems),
			}
			if _, seen := groups[item.SKUID]; !seen {
				skuOrder = append(skuOrder, item.SKUID)
			}
			groups[item.SKUID] = append(groups[item.SKUID], d)

			plan.SheetItems = append(plan.SheetItems, LoadSheetItem{
				OrderID:           order.ID,
				SKUID:             item.SKUID,
				RequestedQuantity: item.Quantity,
				FulfilledQuantity: decimal.Zero,
				Sources:           make([]BatchAllocation, 0),
				DeliveryStatus:    DeliveryStatusPending,
			})
		}
	}

	type fulfilledKey struct {
		orderID uuid.UUID
		skuID   uuid.UUID
		batchID uuid.UUID
	}
	fulfilledIdx := make(map[fulfilledKey]int)

	for _, skuID := range skuOrder {
		group := groups[skuID]
		groupRemaining := decimal.Zero
		for _, d := range group {
			groupRemaining = groupRemaining.Add(d.remaining)
		}

		// AvailableBatches returns copies sorted earliest-expiry-first, so
		// quantities can be decremented here without touching the aggregate
		for _, batch := range skus[skuID].AvailableBatches() {
			if groupRemaining.LessThanOrEqual(decimal.Zero) {
				break
			}
			deduct := decimal.Min(batch.Quantity, groupRemaining)
			if deduct.LessThanOrEqual(decimal.Zero) {
				continue
			}

			plan.Debits = append(plan.Debits, BatchDebit{
				SKUID:    skuID,
				BatchID:  batch.ID,
				Quantity: deduct,
			})
			groupRemaining = groupRemaining.Sub(deduct)

			// Hand the batch quantity out to lines in order
			for _, d := range group {
				if deduct.LessThanOrEqual(decimal.Zero) {
					break
				}
				if d.remaining.LessThanOrEqual(decimal.Zero) {
					continue
				}
				amount := decimal.Min(d.remaining, deduct)
				d.remaining = d.remaining.Sub(amount)
				deduct = deduct.Sub(amount)

				key := fulfilledKey{orderID: d.orderID, skuID: skuID, batchID: batch.ID}
				if idx, ok := fulfilledIdx[key]; ok {
					plan.FulfilledByOrder[d.orderID][idx].Quantity =
						plan.FulfilledByOrder[d.orderID][idx].Quantity.Add(amount)
				} else {
					fulfilledIdx[key] = len(plan.FulfilledByOrder[d.orderID])
					plan.FulfilledByOrder[d.orderID] = append(plan.FulfilledByOrder[d.orderID], sales.FulfilledItem{
						OrderID:  d.orderID,
						SKUID:    skuID,
						Quantity: amount,
						BatchID:  batch.ID,
						Price:    batch.Price,
					})
				}

				sheetItem := &plan.SheetItems[d.sheetIdx]
				sheetItem.FulfilledQuantity = sheetItem.FulfilledQuantity.Add(amount)
				sheetItem.BatchID = batch.ID
				sheetItem.Sources = append(sheetItem.Sources, BatchAllocation{
					BatchID:     batch.ID,
					BatchNumber: batch.BatchNumber,
					Quantity:    amount,
					Price:       batch.Price,
				})
			}
		}
	}

	return plan, nil
}
