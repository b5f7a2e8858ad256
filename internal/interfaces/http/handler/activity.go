package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
)

// ActivityEntryResponse is one line of the activity trail
type ActivityEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// ActivityHandler exposes the back-office activity trail
type ActivityHandler struct {
	BaseHandler
	recorder activity.Recorder
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(recorder activity.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

// Recent returns the newest activity entries
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.recorder.Recent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ActivityEntryResponse{
			ID:        entry.ID,
			Timestamp: entry.Timestamp,
			UserID:    entry.UserID,
			UserName:  entry.UserName,
			Action:    entry.Action,
			Details:   entry.Details,
		})
	}
	h.Success(c, resp)
}

// RegisterRoutes registers the activity routes
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.Recent)
}
