package montage

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle of an installation order
type OrderStatus string

const (
	OrderStatusPlanned    OrderStatus = "planned"
	OrderStatusScheduled  OrderStatus = "scheduled"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlanned, OrderStatusScheduled, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to the target status is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPlanned:    {OrderStatusScheduled, OrderStatusCancelled},
		OrderStatusScheduled:  {OrderStatusInProgress, OrderStatusPlanned, OrderStatusCancelled},
		OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCancelled},
		OrderStatusCompleted:  {},
		OrderStatusCancelled:  {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Order is a furniture installation job at the customer's address. Planned
// orders wait in the backlog; scheduling requires a date and a crew.
type Order struct {
	shared.BaseAggregateRoot
	Number        string      `gorm:"type:varchar(30);not null;uniqueIndex"`
	DealID        *uuid.UUID  `gorm:"type:uuid;index"`
	CustomerName  string      `gorm:"type:varchar(300);not null"`
	Address       string      `gorm:"type:varchar(500);not null"`
	Phone         string      `gorm:"type:varchar(50)"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'planned';index"`
	ScheduledDate *time.Time  `gorm:"index"`
	Installers    []Installer `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Notes         string      `gorm:"type:varchar(2000)"`
	CompletedAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "montage_orders"
}

// Installer is a crew member booked on an installation order
type Installer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_installer,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_installer,priority:2"`
	IsLead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Installer) TableName() string {
	return "montage_installers"
}

// Item is a piece of furniture to assemble on an installation order
type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(300);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	Unit      string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Remark    string          `gorm:"type:varchar(500)"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "montage_items"
}

// NewItem creates an installation line item
func NewItem(orderID uuid.UUID, name string, quantity decimal.Decimal, unit, remark string) (*Item, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "pcs"
	}

	now := time.Now()
	return &Item{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		Remark:    remark,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update changes the line item details
func (i *Item) Update(name string, quantity decimal.Decimal, unit, remark string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Name = name
	i.Quantity = quantity
	if unit = strings.TrimSpace(unit); unit != "" {
		i.Unit = unit
	}
	i.Remark = remark
	i.UpdatedAt = time.Now()
	return nil
}

// NewOrder creates a planned installation order
func NewOrder(number, customerName, address string) (*Order, error) {
	number = strings.TrimSpace(number)
	customerName = strings.TrimSpace(customerName)
	address = strings.TrimSpace(address)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Installation address cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerName:      customerName,
		Address:           address,
		Status:            OrderStatusPlanned,
	}, nil
}

// ForDeal links the order to the deal it fulfils
func (o *Order) ForDeal(dealID uuid.UUID) *Order {
	o.DealID = &dealID
	return o
}

// Update changes contact details on an unfinished order
func (o *Order) Update(customerName, address, phone, notes string) error {
	if o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled {
		return shared.NewDomainError("ORDER_CLOSED", "Cannot edit a closed order")
	}
	customerName = strings.TrimSpace(customerName)
	address = strings.TrimSpace(address)
	if customerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if address == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Installation address cannot be empty")
	}
	o.CustomerName = customerName
	o.Address = address
	o.Phone = phone
	o.Notes = notes
	o.UpdatedAt = time.Now()
	return nil
}

// Schedule books the order for a date with a crew. The date must not be in
// the past and at least one installer is required.
func (o *Order) Schedule(date time.Time, installerIDs []uuid.UUID, leadID *uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusScheduled) && o.Status != OrderStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Cannot schedule order in status "+string(o.Status))
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return shared.NewDomainError("PAST_DATE", "Scheduled date cannot be in the past")
	}
	if len(installerIDs) == 0 {
		return shared.NewDomainError("NO_INSTALLERS", "At least one installer is required")
	}
	seen := make(map[uuid.UUID]bool, len(installerIDs))
	crew := make([]Installer, 0, len(installerIDs))
	for _, id := range installerIDs {
		if id == uuid.Nil || seen[id] {
			return shared.NewDomainError("INVALID_INSTALLERS", "Installer list contains duplicates or empty ids")
		}
		seen[id] = true
		crew = append(crew, Installer{
			ID:        uuid.New(),
			OrderID:   o.ID,
			UserID:    id,
			IsLead:    leadID != nil && *leadID == id,
			CreatedAt: time.Now(),
		})
	}
	if leadID != nil && !seen[*leadID] {
		return shared.NewDomainError("INVALID_LEAD", "Lead installer must be part of the crew")
	}

	o.ScheduledDate = &date
	o.Installers = crew
	o.Status = OrderStatusScheduled
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderScheduledEvent(o))
	return nil
}

// Unschedule returns a scheduled order to the backlog
func (o *Order) Unschedule() error {
	if !o.Status.CanTransitionTo(OrderStatusPlanned) {
		return shared.NewDomainError("INVALID_STATE", "Cannot unschedule order in status "+string(o.Status))
	}
	o.ScheduledDate = nil
	o.Installers = nil
	o.Status = OrderStatusPlanned
	o.UpdatedAt = time.Now()
	return nil
}

// Start marks the crew as on site
func (o *Order) Start() error {
	if !o.Status.CanTransitionTo(OrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", "Cannot start order in status "+string(o.Status))
	}
	o.Status = OrderStatusInProgress
	o.UpdatedAt = time.Now()
	return nil
}

// Complete finishes the installation
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Cannot complete order in status "+string(o.Status))
	}
	o.Status = OrderStatusCompleted
	now := time.Now()
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderCompletedEvent(o))
	return nil
}

// Cancel aborts the order with a reason
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel order in status "+string(o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	return nil
}
