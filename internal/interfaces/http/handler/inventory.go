package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/sfa/backend/internal/application/inventory"
)

// InventoryHandler handles SKU and batch API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateSKU registers a new sellable product
func (h *InventoryHandler) CreateSKU(c *gin.Context) {
	var req inventoryapp.CreateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.inventoryService.CreateSKU(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSKU retrieves a single SKU with its batches
func (h *InventoryHandler) GetSKU(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	resp, err := h.inventoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSKUs retrieves SKUs with filtering and pagination
func (h *InventoryHandler) ListSKUs(c *gin.Context) {
	var filter inventoryapp.SKUListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ReceiveBatch books an inventory receipt against a SKU
func (h *InventoryHandler) ReceiveBatch(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	var req inventoryapp.ReceiveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.inventoryService.ReceiveBatch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TraceBatch resolves a batch ID back to its owning SKU
func (h *InventoryHandler) TraceBatch(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.inventoryService.GetByBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	skus := rg.Group("/skus")
	{
		skus.POST("", h.CreateSKU)
		skus.GET("", h.ListSKUs)
		skus.GET("/:id", h.GetSKU)
		skus.POST("/:id/batches", h.ReceiveBatch)
	}
	batches := rg.Group("/batches")
	{
		batches.GET("/:id/sku", h.TraceBatch)
	}
}
