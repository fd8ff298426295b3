package montage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furniflow/backend/internal/domain/montage"
)

// OrderResponse represents an installation order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	DealID        *uuid.UUID          `json:"deal_id,omitempty"`
	CustomerName  string              `json:"customer_name"`
	Address       string              `json:"address"`
	Phone         string              `json:"phone"`
	Status        string              `json:"status"`
	ScheduledDate *time.Time          `json:"scheduled_date,omitempty"`
	Installers    []InstallerResponse `json:"installers"`
	Notes         string              `json:"notes"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// InstallerResponse represents a crew member in API responses
type InstallerResponse struct {
	UserID uuid.UUID `json:"user_id"`
	IsLead bool      `json:"is_lead"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *montage.Order) OrderResponse {
	installers := make([]InstallerResponse, 0, len(o.Installers))
	for _, inst := range o.Installers {
		installers = append(installers, InstallerResponse{
			UserID: inst.UserID,
			IsLead: inst.IsLead,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		DealID:        o.DealID,
		CustomerName:  o.CustomerName,
		Address:       o.Address,
		Phone:         o.Phone,
		Status:        string(o.Status),
		ScheduledDate: o.ScheduledDate,
		Installers:    installers,
		Notes:         o.Notes,
		CompletedAt:   o.CompletedAt,
		CancelReason:  o.CancelReason,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders to response DTOs
func ToOrderResponses(orders []*montage.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToOrderResponse(o))
	}
	return result
}

// CalendarDayResponse groups the orders booked on one date
type CalendarDayResponse struct {
	Date   string          `json:"date"`
	Orders []OrderResponse `json:"orders"`
}

// CreateOrderRequest represents a request to open an installation order
type CreateOrderRequest struct {
	CustomerName string     `json:"customer_name" binding:"required,max=300"`
	Address      string     `json:"address" binding:"required,max=500"`
	Phone        string     `json:"phone" binding:"max=50"`
	Notes        string     `json:"notes" binding:"max=2000"`
	DealID       *uuid.UUID `json:"deal_id,omitempty"`
}

// UpdateOrderRequest represents a request to edit contact details
type UpdateOrderRequest struct {
	CustomerName string `json:"customer_name" binding:"required,max=300"`
	Address      string `json:"address" binding:"required,max=500"`
	Phone        string `json:"phone" binding:"max=50"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// ScheduleOrderRequest books a date and a crew
type ScheduleOrderRequest struct {
	Date         time.Time   `json:"date" binding:"required"`
	InstallerIDs []uuid.UUID `json:"installer_ids" binding:"required,min=1"`
	LeadID       *uuid.UUID  `json:"lead_id,omitempty"`
}

// CancelOrderRequest aborts an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter represents query parameters for listing orders
type OrderListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	DealID   *uuid.UUID `form:"deal_id"`
}

// ItemResponse represents an installation line item in API responses
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	Remark    string          `json:"remark,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toItemResponse(item *montage.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Remark:    item.Remark,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ItemRequest represents a request to add or change a line item
type ItemRequest struct {
	Name     string          `json:"name" binding:"required,max=300"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit" binding:"max=20"`
	Remark   string          `json:"remark" binding:"max=500"`
}

// CalendarFilter bounds the scheduling calendar
type CalendarFilter struct {
	From        time.Time  `form:"from" binding:"required" time_format:"2006-01-02"`
	To          time.Time  `form:"to" binding:"required" time_format:"2006-01-02"`
	InstallerID *uuid.UUID `form:"installer_id"`
}
