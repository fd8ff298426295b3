package warehouse

import (
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the warehouse domain
const (
	EventTypeStockReceived        = "warehouse.stock_received"
	EventTypeStockIssued          = "warehouse.stock_issued"
	EventTypeStockAdjusted        = "warehouse.stock_adjusted"
	EventTypeLowStock             = "warehouse.low_stock"
	EventTypeReservationCreated   = "warehouse.reservation_created"
	EventTypeReservationConfirmed = "warehouse.reservation_confirmed"
	EventTypeReservationReleased  = "warehouse.reservation_released"
	EventTypeReservationCancelled = "warehouse.reservation_cancelled"
)

// StockReceivedEvent is raised when stock comes in
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockReceivedEvent creates a stock received event
func NewStockReceivedEvent(item *Item, quantity decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "WarehouseItem", item.ID),
		SKU:             item.SKU,
		Quantity:        quantity,
		BalanceAfter:    item.Quantity,
	}
}

// StockIssuedEvent is raised when stock goes out
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockIssuedEvent creates a stock issued event
func NewStockIssuedEvent(item *Item, quantity decimal.Decimal) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, "WarehouseItem", item.ID),
		SKU:             item.SKU,
		Quantity:        quantity,
		BalanceAfter:    item.Quantity,
	}
}

// StockAdjustedEvent is raised when an inventory count corrects the balance
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	SKU              string          `json:"sku"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reason           string          `json:"reason"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(item *Item, previous, actual decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockAdjusted, "WarehouseItem", item.ID),
		SKU:              item.SKU,
		PreviousQuantity: previous,
		NewQuantity:      actual,
		Reason:           reason,
	}
}

// LowStockEvent is raised when on-hand stock drops below the threshold
type LowStockEvent struct {
	shared.BaseDomainEvent
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewLowStockEvent creates a low stock event
func NewLowStockEvent(item *Item) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, "WarehouseItem", item.ID),
		SKU:             item.SKU,
		Name:            item.Name,
		Quantity:        item.Quantity,
		MinQuantity:     item.MinQuantity,
	}
}

// ReservationCreatedEvent is raised when stock is put on hold
type ReservationCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Purpose  string          `json:"purpose,omitempty"`
}

// NewReservationCreatedEvent creates a reservation created event
func NewReservationCreatedEvent(r *Reservation) *ReservationCreatedEvent {
	return &ReservationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCreated, "WarehouseReservation", r.ID),
		ItemID:          r.ItemID.String(),
		Quantity:        r.Quantity,
		Purpose:         r.Purpose,
	}
}

// ReservationConfirmedEvent is raised when a hold becomes firm
type ReservationConfirmedEvent struct {
	shared.BaseDomainEvent
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewReservationConfirmedEvent creates a reservation confirmed event
func NewReservationConfirmedEvent(r *Reservation) *ReservationConfirmedEvent {
	return &ReservationConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationConfirmed, "WarehouseReservation", r.ID),
		ItemID:          r.ItemID.String(),
		Quantity:        r.Quantity,
	}
}

// ReservationReleasedEvent is raised when reserved stock is consumed
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewReservationReleasedEvent creates a reservation released event
func NewReservationReleasedEvent(r *Reservation) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, "WarehouseReservation", r.ID),
		ItemID:          r.ItemID.String(),
		Quantity:        r.Quantity,
	}
}

// ReservationCancelledEvent is raised when a hold is returned to stock
type ReservationCancelledEvent struct {
	shared.BaseDomainEvent
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewReservationCancelledEvent creates a reservation cancelled event
func NewReservationCancelledEvent(r *Reservation) *ReservationCancelledEvent {
	return &ReservationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCancelled, "WarehouseReservation", r.ID),
		ItemID:          r.ItemID.String(),
		Quantity:        r.Quantity,
	}
}
