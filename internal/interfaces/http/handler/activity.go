package handler

import (
	"github.com/gin-gonic/gin"

	activityapp "github.com/furniflow/backend/internal/application/activity"
)

// ActivityHandler serves the audit trail
type ActivityHandler struct {
	BaseHandler
	activity *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activity *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns audit entries, newest first
func (h *ActivityHandler) List(c *gin.Context) {
	var filter activityapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	entries, total, err := h.activity.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// ListByAggregate returns the audit trail for one aggregate
func (h *ActivityHandler) ListByAggregate(c *gin.Context) {
	aggregateType := c.Param("type")
	if aggregateType == "" {
		h.BadRequest(c, "Aggregate type is required")
		return
	}
	aggregateID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid aggregate ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	entries, err := h.activity.ListByAggregate(c.Request.Context(), aggregateType, aggregateID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
