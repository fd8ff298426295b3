package warehouse

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is the aggregate root for warehouse stock. Quantity is the physical
// on-hand amount; ReservedQuantity is the portion of it held for projects.
// The invariant ReservedQuantity <= Quantity holds at all times and is
// persisted under optimistic locking.
type Item struct {
	shared.BaseAggregateRoot
	SKU              string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(300);not null;index"`
	Category         string          `gorm:"type:varchar(100);index"` // e.g. "panels", "fittings", "fabric"
	Unit             string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MinQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert threshold
	Location         string          `gorm:"type:varchar(100)"`                     // Shelf / rack code
	Description      string          `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "warehouse_items"
}

// NewItem creates a new warehouse item with zero stock
func NewItem(sku, name, unit string) (*Item, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		UnitPrice:         decimal.Zero,
		MinQuantity:       decimal.Zero,
	}, nil
}

// AvailableQuantity returns the quantity not held by reservations
func (i *Item) AvailableQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReservedQuantity)
}

// Receive increases on-hand stock (incoming delivery)
func (i *Item) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	i.Quantity = i.Quantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewStockReceivedEvent(i, quantity))
	return nil
}

// Issue decreases on-hand stock (outgoing shipment). Only unreserved stock
// can be issued directly; reserved stock leaves through reservation release.
func (i *Item) Issue(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Issue quantity must be positive")
	}
	if i.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	i.Quantity = i.Quantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewStockIssuedEvent(i, quantity))
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
	return nil
}

// Adjust sets on-hand stock to the counted quantity (inventory correction).
// Adjustment below the reserved quantity is rejected because it would strand
// reservations without backing stock.
func (i *Item) Adjust(actualQuantity decimal.Decimal, reason string) error {
	if actualQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if actualQuantity.LessThan(i.ReservedQuantity) {
		return shared.NewDomainError("BELOW_RESERVED", "Cannot adjust quantity below the reserved amount")
	}
	previous := i.Quantity
	i.Quantity = actualQuantity
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewStockAdjustedEvent(i, previous, actualQuantity, reason))
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
	return nil
}

// Reserve moves quantity from available to reserved for a new reservation
func (i *Item) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	if i.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// Unreserve returns reserved quantity to the available pool (cancellation)
func (i *Item) Unreserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_STATE", "Cannot unreserve more than is reserved")
	}
	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// ConsumeReserved removes reserved stock from the warehouse entirely
// (reservation released after fulfilment).
func (i *Item) ConsumeReserved(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_STATE", "Cannot consume more than is reserved")
	}
	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.Quantity = i.Quantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewLowStockEvent(i))
	}
	return nil
}

// SetPricing updates unit price
func (i *Item) SetPricing(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.UpdatedAt = time.Now()
	return nil
}

// SetMinQuantity updates the low-stock threshold
func (i *Item) SetMinQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	i.MinQuantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Update changes descriptive fields
func (i *Item) Update(name, category, location, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	i.Name = name
	i.Category = category
	i.Location = location
	i.Description = description
	i.UpdatedAt = time.Now()
	return nil
}

// IsBelowMinimum returns true when on-hand stock dropped under the threshold
func (i *Item) IsBelowMinimum() bool {
	return i.MinQuantity.GreaterThan(decimal.Zero) && i.Quantity.LessThan(i.MinQuantity)
}

// CanFulfill returns true if available stock covers the requested quantity
func (i *Item) CanFulfill(quantity decimal.Decimal) bool {
	return i.AvailableQuantity().GreaterThanOrEqual(quantity)
}

// TotalValue returns on-hand quantity times unit price
func (i *Item) TotalValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
