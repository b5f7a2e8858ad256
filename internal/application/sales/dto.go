package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one requested line in a new order
type OrderItemRequest struct {
	SKUID    uuid.UUID       `json:"sku_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// CreateOrderRequest places a new order for an outlet
type CreateOrderRequest struct {
	OutletID  uuid.UUID          `json:"outlet_id" binding:"required"`
	UserID    uuid.UUID          `json:"user_id" binding:"required"`
	OrderDate *time.Time         `json:"order_date"`
	Items     []OrderItemRequest `json:"items" binding:"required"`
}

// InvoiceOrdersRequest promotes a batch of pending orders to Invoiced
type InvoiceOrdersRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required"`
}

// CancelOrderRequest cancels a pending or invoiced order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderItemResponse is one requested line
type OrderItemResponse struct {
	SKUID    uuid.UUID       `json:"sku_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// FulfilledItemResponse is one lot-level allocation on an order
type FulfilledItemResponse struct {
	SKUID    uuid.UUID       `json:"sku_id"`
	Quantity decimal.Decimal `json:"quantity"`
	BatchID  uuid.UUID       `json:"batch_id"`
	Price    decimal.Decimal `json:"price"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID             uuid.UUID               `json:"id"`
	OutletID       uuid.UUID               `json:"outlet_id"`
	UserID         uuid.UUID               `json:"user_id"`
	OrderDate      time.Time               `json:"order_date"`
	Status         string                  `json:"status"`
	InvoiceID      string                  `json:"invoice_id,omitempty"`
	Items          []OrderItemResponse     `json:"items"`
	FulfilledItems []FulfilledItemResponse `json:"fulfilled_items"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	Version        int                     `json:"version"`
}

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(order *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			SKUID:    item.SKUID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	fulfilled := make([]FulfilledItemResponse, 0, len(order.FulfilledItems))
	for _, fi := range order.FulfilledItems {
		fulfilled = append(fulfilled, FulfilledItemResponse{
			SKUID:    fi.SKUID,
			Quantity: fi.Quantity,
			BatchID:  fi.BatchID,
			Price:    fi.Price,
		})
	}
	return OrderResponse{
		ID:             order.ID,
		OutletID:       order.OutletID,
		UserID:         order.UserID,
		OrderDate:      order.OrderDate,
		Status:         order.Status.String(),
		InvoiceID:      order.InvoiceID,
		Items:          items,
		FulfilledItems: fulfilled,
		TotalAmount:    order.TotalAmount(),
		Version:        order.Version,
	}
}

// InvoiceOrdersResponse reports the outcome of a bulk invoicing run
type InvoiceOrdersResponse struct {
	Invoiced []OrderResponse `json:"invoiced"`
	Skipped  []uuid.UUID     `json:"skipped"`
}

// OrderListFilter filters order listings
type OrderListFilter struct {
	Status   string    `form:"status"`
	OutletID uuid.UUID `form:"outlet_id"`
	Page     int       `form:"page"`
	PageSize int       `form:"page_size"`
}
