package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/sfa/backend/internal/application/identity"
)

// IdentityHandler handles user and outlet API endpoints
type IdentityHandler struct {
	BaseHandler
	identityService *identityapp.IdentityService
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(identityService *identityapp.IdentityService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

// CreateUser registers a new user
func (h *IdentityHandler) CreateUser(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.identityService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListUsers returns all users
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	resp, err := h.identityService.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateOutlet registers a new outlet
func (h *IdentityHandler) CreateOutlet(c *gin.Context) {
	var req identityapp.CreateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.identityService.CreateOutlet(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListOutlets returns all outlets
func (h *IdentityHandler) ListOutlets(c *gin.Context) {
	resp, err := h.identityService.ListOutlets(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all identity routes
func (h *IdentityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
	}
	outlets := rg.Group("/outlets")
	{
		outlets.POST("", h.CreateOutlet)
		outlets.GET("", h.ListOutlets)
	}
}
