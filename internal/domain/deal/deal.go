package deal

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the commercial outcome of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

// IsValid checks if the status is valid
func (s DealStatus) IsValid() bool {
	return s == DealStatusOpen || s == DealStatusWon || s == DealStatusLost
}

// IsClosed reports whether the deal reached a final outcome
func (s DealStatus) IsClosed() bool {
	return s == DealStatusWon || s == DealStatusLost
}

// Deal is a customer order moving through a sales pipeline, from first
// contact to won or lost. Stage tracks board position; Status tracks the
// commercial outcome and is independent of the stage.
type Deal struct {
	shared.BaseAggregateRoot
	Number        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Title         string          `gorm:"type:varchar(300);not null"`
	PipelineID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StageID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        DealStatus      `gorm:"type:varchar(20);not null;default:'open';index"`
	CustomerName  string          `gorm:"type:varchar(300);not null"`
	CustomerPhone string          `gorm:"type:varchar(50)"`
	CustomerEmail string          `gorm:"type:varchar(200)"`
	Address       string          `gorm:"type:varchar(500)"` // Delivery / installation address
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'RUB'"`
	ManagerID     *uuid.UUID      `gorm:"type:uuid;index"`
	LostReason    string          `gorm:"type:varchar(500)"`
	Notes         string          `gorm:"type:varchar(4000)"`
	ClosedAt      *time.Time
	StageEnteredAt time.Time `gorm:"not null"` // For time-in-stage reporting
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal creates an open deal in the given pipeline stage. The number is
// allocated by the caller from the sequence service.
func NewDeal(number, title, customerName string, pipelineID, stageID uuid.UUID) (*Deal, error) {
	number = strings.TrimSpace(number)
	title = strings.TrimSpace(title)
	customerName = strings.TrimSpace(customerName)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Deal number cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if pipelineID == uuid.Nil || stageID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PIPELINE", "Pipeline and stage are required")
	}

	d := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Title:             title,
		PipelineID:        pipelineID,
		StageID:           stageID,
		Status:            DealStatusOpen,
		CustomerName:      customerName,
		Amount:            decimal.Zero,
		Currency:          "RUB",
		StageEnteredAt:    time.Now(),
	}
	d.AddDomainEvent(NewDealCreatedEvent(d))
	return d, nil
}

// Update changes descriptive fields on an open deal
func (d *Deal) Update(title, customerName, customerPhone, customerEmail, address, notes string) error {
	if d.Status.IsClosed() {
		return shared.NewDomainError("DEAL_CLOSED", "Cannot edit a closed deal")
	}
	title = strings.TrimSpace(title)
	customerName = strings.TrimSpace(customerName)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if customerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	d.Title = title
	d.CustomerName = customerName
	d.CustomerPhone = customerPhone
	d.CustomerEmail = customerEmail
	d.Address = address
	d.Notes = notes
	d.UpdatedAt = time.Now()
	return nil
}

// SetAmount updates the deal value
func (d *Deal) SetAmount(amount decimal.Decimal, currency string) error {
	if d.Status.IsClosed() {
		return shared.NewDomainError("DEAL_CLOSED", "Cannot edit a closed deal")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Deal amount cannot be negative")
	}
	if currency == "" {
		currency = d.Currency
	}
	d.Amount = amount
	d.Currency = currency
	d.UpdatedAt = time.Now()
	return nil
}

// AssignManager sets the responsible sales manager
func (d *Deal) AssignManager(managerID uuid.UUID) error {
	if d.Status.IsClosed() {
		return shared.NewDomainError("DEAL_CLOSED", "Cannot edit a closed deal")
	}
	d.ManagerID = &managerID
	d.UpdatedAt = time.Now()
	return nil
}

// MoveToStage moves the deal to another stage of its pipeline. The caller
// validates that the stage belongs to the deal's pipeline.
func (d *Deal) MoveToStage(stageID uuid.UUID) error {
	if d.Status.IsClosed() {
		return shared.NewDomainError("DEAL_CLOSED", "Cannot move a closed deal")
	}
	if stageID == uuid.Nil {
		return shared.NewDomainError("INVALID_STAGE", "Stage is required")
	}
	if stageID == d.StageID {
		return nil
	}
	from := d.StageID
	d.StageID = stageID
	d.StageEnteredAt = time.Now()
	d.UpdatedAt = time.Now()
	d.AddDomainEvent(NewDealStageChangedEvent(d, from, stageID))
	return nil
}

// Win closes the deal as won
func (d *Deal) Win() error {
	if d.Status != DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only an open deal can be won")
	}
	d.Status = DealStatusWon
	now := time.Now()
	d.ClosedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewDealWonEvent(d))
	return nil
}

// Lose closes the deal as lost with a reason
func (d *Deal) Lose(reason string) error {
	if d.Status != DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only an open deal can be lost")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Lost reason is required")
	}
	d.Status = DealStatusLost
	d.LostReason = reason
	now := time.Now()
	d.ClosedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewDealLostEvent(d, reason))
	return nil
}

// Reopen returns a closed deal to the open state
func (d *Deal) Reopen() error {
	if d.Status == DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Deal is already open")
	}
	d.Status = DealStatusOpen
	d.LostReason = ""
	d.ClosedAt = nil
	d.UpdatedAt = time.Now()
	d.AddDomainEvent(NewDealReopenedEvent(d))
	return nil
}

// IsOpen reports whether the deal is still in play
func (d *Deal) IsOpen() bool {
	return d.Status == DealStatusOpen
}
