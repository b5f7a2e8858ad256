package handler

import (
	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/sfa/backend/internal/application/fulfillment"
)

// LoadSheetHandler handles fulfillment API endpoints
type LoadSheetHandler struct {
	BaseHandler
	fulfillmentService    *fulfillmentapp.FulfillmentService
	reconciliationService *fulfillmentapp.ReconciliationService
}

// NewLoadSheetHandler creates a new LoadSheetHandler
func NewLoadSheetHandler(fulfillmentService *fulfillmentapp.FulfillmentService, reconciliationService *fulfillmentapp.ReconciliationService) *LoadSheetHandler {
	return &LoadSheetHandler{
		fulfillmentService:    fulfillmentService,
		reconciliationService: reconciliationService,
	}
}

// Create allocates stock against selected orders and produces a manifest
func (h *LoadSheetHandler) Create(c *gin.Context) {
	var req fulfillmentapp.CreateLoadSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fulfillmentService.CreateLoadSheet(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single load sheet
func (h *LoadSheetHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid load sheet ID")
		return
	}

	resp, err := h.fulfillmentService.GetLoadSheet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List retrieves load sheets with filtering and pagination
func (h *LoadSheetHandler) List(c *gin.Context) {
	var filter fulfillmentapp.LoadSheetListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.fulfillmentService.ListLoadSheets(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Dispatch marks a created sheet as out for delivery
func (h *LoadSheetHandler) Dispatch(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid load sheet ID")
		return
	}

	resp, err := h.fulfillmentService.DispatchLoadSheet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel aborts a created sheet and restocks its allocations
func (h *LoadSheetHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid load sheet ID")
		return
	}

	resp, err := h.fulfillmentService.CancelLoadSheet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItemStatus records a delivery or return outcome for one sheet line
func (h *LoadSheetHandler) UpdateItemStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid load sheet ID")
		return
	}

	var req fulfillmentapp.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reconciliationService.UpdateItemStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all load sheet routes
func (h *LoadSheetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sheets := rg.Group("/load-sheets")
	{
		sheets.POST("", h.Create)
		sheets.GET("", h.List)
		sheets.GET("/:id", h.Get)
		sheets.POST("/:id/dispatch", h.Dispatch)
		sheets.POST("/:id/cancel", h.Cancel)
		sheets.PATCH("/:id/items/status", h.UpdateItemStatus)
	}
}
