package handler

import (
	"github.com/gin-gonic/gin"

	warehouseapp "github.com/furniflow/backend/internal/application/warehouse"
)

// WarehouseHandler handles inventory endpoints
type WarehouseHandler struct {
	BaseHandler
	items        *warehouseapp.WarehouseService
	reservations *warehouseapp.ReservationService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(items *warehouseapp.WarehouseService, reservations *warehouseapp.ReservationService) *WarehouseHandler {
	return &WarehouseHandler{items: items, reservations: reservations}
}

// ListItems returns stock items with filtering and pagination
func (h *WarehouseHandler) ListItems(c *gin.Context) {
	var filter warehouseapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListBelowMinimum returns items at or under their reorder level
func (h *WarehouseHandler) ListBelowMinimum(c *gin.Context) {
	items, err := h.items.ListBelowMinimum(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem returns one stock item
func (h *WarehouseHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetItemBySKU returns one stock item by SKU
func (h *WarehouseHandler) GetItemBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	item, err := h.items.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateItem registers a new stock item
func (h *WarehouseHandler) CreateItem(c *gin.Context) {
	var req warehouseapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem edits a stock item's catalog details
func (h *WarehouseHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req warehouseapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes an item with no remaining stock
func (h *WarehouseHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Receive books incoming stock onto an item
func (h *WarehouseHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req warehouseapp.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.items.Receive(c.Request.Context(), id, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Issue books outgoing stock off an item
func (h *WarehouseHandler) Issue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req warehouseapp.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.items.Issue(c.Request.Context(), id, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Adjust corrects an item's quantity after a physical count
func (h *WarehouseHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req warehouseapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.items.Adjust(c.Request.Context(), id, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// ListTransactions returns the stock ledger across all items
func (h *WarehouseHandler) ListTransactions(c *gin.Context) {
	var filter warehouseapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	txs, total, err := h.items.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

// ListItemTransactions returns one item's ledger entries
func (h *WarehouseHandler) ListItemTransactions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	txs, err := h.items.ListItemTransactions(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// ListReservations returns stock reservations with filtering
func (h *WarehouseHandler) ListReservations(c *gin.Context) {
	var filter warehouseapp.ReservationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	reservations, total, err := h.reservations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reservations, total, filter.Page, filter.PageSize)
}

// ListDealReservations returns reservations held for one deal
func (h *WarehouseHandler) ListDealReservations(c *gin.Context) {
	dealID, ok := parseIDParam(c, "dealId")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	reservations, err := h.reservations.ListByDeal(c.Request.Context(), dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservations)
}

// GetReservation returns one reservation
func (h *WarehouseHandler) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// CreateReservation holds stock against future use
func (h *WarehouseHandler) CreateReservation(c *gin.Context) {
	var req warehouseapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	r, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// ConfirmReservation locks a pending reservation
func (h *WarehouseHandler) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.reservations.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// ReleaseReservation consumes the held stock and writes a ledger entry
func (h *WarehouseHandler) ReleaseReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.reservations.Release(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// CancelReservation returns the held stock to availability
func (h *WarehouseHandler) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.reservations.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}
