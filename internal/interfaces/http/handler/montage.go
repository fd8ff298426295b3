package handler

import (
	"github.com/gin-gonic/gin"

	montageapp "github.com/furniflow/backend/internal/application/montage"
)

// MontageHandler handles installation scheduling endpoints
type MontageHandler struct {
	BaseHandler
	orders *montageapp.MontageService
}

// NewMontageHandler creates a new MontageHandler
func NewMontageHandler(orders *montageapp.MontageService) *MontageHandler {
	return &MontageHandler{orders: orders}
}

// List returns montage orders with filtering and pagination
func (h *MontageHandler) List(c *gin.Context) {
	var filter montageapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Calendar returns scheduled orders grouped by day
func (h *MontageHandler) Calendar(c *gin.Context) {
	var filter montageapp.CalendarFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Both from and to dates are required as YYYY-MM-DD")
		return
	}

	days, err := h.orders.Calendar(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}

// ListByDeal returns montage orders linked to a deal
func (h *MontageHandler) ListByDeal(c *gin.Context) {
	dealID, ok := parseIDParam(c, "dealId")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	orders, err := h.orders.ListByDeal(c.Request.Context(), dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID returns one montage order
func (h *MontageHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create opens a new montage order
func (h *MontageHandler) Create(c *gin.Context) {
	var req montageapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update edits order details
func (h *MontageHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	var req montageapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Schedule books a crew onto a date
func (h *MontageHandler) Schedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	var req montageapp.ScheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Schedule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Unschedule returns a scheduled order to planning
func (h *MontageHandler) Unschedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.Unschedule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Start marks the crew as on site
func (h *MontageHandler) Start(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.Start(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete closes a finished installation
func (h *MontageHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel aborts an order with a reason
func (h *MontageHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	var req montageapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes a planned or cancelled order
func (h *MontageHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems returns an order's line items
func (h *MontageHandler) ListItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	items, err := h.orders.ListItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddItem appends a line item to an order
func (h *MontageHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}
	var req montageapp.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.orders.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem changes a line item
func (h *MontageHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req montageapp.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.orders.UpdateItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes a line item
func (h *MontageHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.orders.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
