package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateSKURequest registers a new sellable product
type CreateSKURequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ReceiveBatchRequest books an inventory receipt for a SKU
type ReceiveBatchRequest struct {
	BatchNumber string          `json:"batch_number" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ExpiryDate  time.Time       `json:"expiry_date" binding:"required"`
}

// BatchResponse is one lot of a SKU
type BatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Expired     bool            `json:"expired"`
}

// SKUResponse is the full SKU view including its batches
type SKUResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Stock       decimal.Decimal `json:"stock"`
	Batches     []BatchResponse `json:"batches"`
	Version     int             `json:"version"`
}

// ToBatchResponse converts a batch to its response DTO
func ToBatchResponse(batch *inventory.Batch) BatchResponse {
	return BatchResponse{
		ID:          batch.ID,
		BatchNumber: batch.BatchNumber,
		Quantity:    batch.Quantity,
		Price:       batch.Price,
		ExpiryDate:  batch.ExpiryDate,
		Expired:     batch.IsExpired(),
	}
}

// ToSKUResponse converts a SKU aggregate to its response DTO
func ToSKUResponse(sku *inventory.SKU) SKUResponse {
	batches := make([]BatchResponse, 0, len(sku.Batches))
	for i := range sku.Batches {
		batches = append(batches, ToBatchResponse(&sku.Batches[i]))
	}
	return SKUResponse{
		ID:          sku.ID,
		Name:        sku.Name,
		Description: sku.Description,
		Category:    sku.Category,
		Stock:       sku.Stock,
		Batches:     batches,
		Version:     sku.Version,
	}
}

// SKUListFilter filters SKU listings
type SKUListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
