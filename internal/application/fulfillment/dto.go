package fulfillment

import (
	"time"

	"github.com/google/uuid"
	domainfulfillment "github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// CreateLoadSheetRequest asks the fulfillment engine to allocate stock to a
// set of orders and produce a delivery manifest
type CreateLoadSheetRequest struct {
	OrderIDs   []uuid.UUID `json:"order_ids" binding:"required"`
	AssignedTo uuid.UUID   `json:"assigned_to" binding:"required"`

	// IdempotencyKey suppresses duplicate submissions when set
	IdempotencyKey string `json:"idempotency_key"`
}

// UpdateItemStatusRequest records a delivery outcome for one sheet line
type UpdateItemStatusRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	SKUID   uuid.UUID `json:"sku_id" binding:"required"`
	Status  string    `json:"status" binding:"required"`

	// Quantity is the requested return quantity; ignored for deliveries.
	// When omitted on a return, the full remaining quantity is returned.
	Quantity *decimal.Decimal `json:"quantity"`
}

// BatchAllocationResponse is one batch's share of a sheet line
type BatchAllocationResponse struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	Quantity         decimal.Decimal `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// LoadSheetItemResponse is one (order, SKU) line on a sheet
type LoadSheetItemResponse struct {
	OrderID           uuid.UUID                 `json:"order_id"`
	SKUID             uuid.UUID                 `json:"sku_id"`
	RequestedQuantity decimal.Decimal           `json:"requested_quantity"`
	FulfilledQuantity decimal.Decimal           `json:"fulfilled_quantity"`
	BatchID           uuid.UUID                 `json:"batch_id"`
	Sources           []BatchAllocationResponse `json:"sources"`
	DeliveryStatus    string                    `json:"delivery_status"`
	ReturnedQuantity  decimal.Decimal           `json:"returned_quantity"`
}

// LoadSheetResponse is the full manifest view
type LoadSheetResponse struct {
	ID            uuid.UUID               `json:"id"`
	CreationDate  time.Time               `json:"creation_date"`
	AssignedTo    uuid.UUID               `json:"assigned_to"`
	AssigneeName  string                  `json:"assignee_name"`
	Status        string                  `json:"status"`
	RelatedOrders []uuid.UUID             `json:"related_orders"`
	Items         []LoadSheetItemResponse `json:"items"`
	Version       int                     `json:"version"`
}

// ToLoadSheetResponse converts a load sheet aggregate to its response DTO
func ToLoadSheetResponse(sheet *domainfulfillment.LoadSheet) LoadSheetResponse {
	items := make([]LoadSheetItemResponse, 0, len(sheet.Items))
	for _, item := range sheet.Items {
		sources := make([]BatchAllocationResponse, 0, len(item.Sources))
		for _, src := range item.Sources {
			sources = append(sources, BatchAllocationResponse{
				BatchID:          src.BatchID,
				BatchNumber:      src.BatchNumber,
				Quantity:         src.Quantity,
				Price:            src.Price,
				ReturnedQuantity: src.ReturnedQuantity,
			})
		}
		items = append(items, LoadSheetItemResponse{
			OrderID:           item.OrderID,
			SKUID:             item.SKUID,
			RequestedQuantity: item.RequestedQuantity,
			FulfilledQuantity: item.FulfilledQuantity,
			BatchID:           item.BatchID,
			Sources:           sources,
			DeliveryStatus:    item.DeliveryStatus.String(),
			ReturnedQuantity:  item.ReturnedQuantity,
		})
	}
	return LoadSheetResponse{
		ID:            sheet.ID,
		CreationDate:  sheet.CreationDate,
		AssignedTo:    sheet.AssignedTo,
		AssigneeName:  sheet.AssigneeName,
		Status:        sheet.Status.String(),
		RelatedOrders: sheet.RelatedOrders,
		Items:         items,
		Version:       sheet.Version,
	}
}

// LoadSheetListFilter filters load sheet listings
type LoadSheetListFilter struct {
	Status     string    `form:"status"`
	AssignedTo uuid.UUID `form:"assigned_to"`
	Page       int       `form:"page"`
	PageSize   int       `form:"page_size"`
}
