package warehouse

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a stock reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusReleased  ReservationStatus = "released"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusReleased, ReservationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to the target status is allowed
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
		ReservationStatusConfirmed: {ReservationStatusReleased, ReservationStatusCancelled},
		ReservationStatusReleased:  {},
		ReservationStatusCancelled: {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation can no longer change state
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusReleased || s == ReservationStatusCancelled
}

// Reservation holds warehouse stock for a deal or montage order. While a
// reservation is pending or confirmed its quantity counts against the
// item's reserved amount; release consumes the stock, cancel returns it.
type Reservation struct {
	shared.BaseAggregateRoot
	ItemID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	DealID    *uuid.UUID        `gorm:"type:uuid;index"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Purpose   string            `gorm:"type:varchar(500)"`
	ExpiresAt *time.Time        `gorm:"index"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "warehouse_reservations"
}

// NewReservation creates a pending reservation. The caller is responsible
// for applying Item.Reserve in the same transaction.
func NewReservation(itemID uuid.UUID, quantity decimal.Decimal, purpose string) (*Reservation, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}

	r := &Reservation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		Quantity:          quantity,
		Status:            ReservationStatusPending,
		Purpose:           strings.TrimSpace(purpose),
	}
	r.AddDomainEvent(NewReservationCreatedEvent(r))
	return r, nil
}

// ForDeal links the reservation to a deal
func (r *Reservation) ForDeal(dealID uuid.UUID) *Reservation {
	r.DealID = &dealID
	return r
}

// WithExpiry sets an expiration for a pending reservation
func (r *Reservation) WithExpiry(expiresAt time.Time) *Reservation {
	r.ExpiresAt = &expiresAt
	return r
}

// Confirm marks the hold as firm (stock committed to the project)
func (r *Reservation) Confirm() error {
	if !r.Status.CanTransitionTo(ReservationStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Cannot confirm reservation in status "+string(r.Status))
	}
	r.Status = ReservationStatusConfirmed
	r.ExpiresAt = nil
	r.UpdatedAt = time.Now()
	r.AddDomainEvent(NewReservationConfirmedEvent(r))
	return nil
}

// Release marks the reserved stock as consumed. The caller applies
// Item.ConsumeReserved in the same transaction.
func (r *Reservation) Release() error {
	if !r.Status.CanTransitionTo(ReservationStatusReleased) {
		return shared.NewDomainError("INVALID_STATE", "Cannot release reservation in status "+string(r.Status))
	}
	r.Status = ReservationStatusReleased
	r.UpdatedAt = time.Now()
	r.AddDomainEvent(NewReservationReleasedEvent(r))
	return nil
}

// Cancel returns the held quantity to the available pool. The caller
// applies Item.Unreserve in the same transaction.
func (r *Reservation) Cancel() error {
	if !r.Status.CanTransitionTo(ReservationStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel reservation in status "+string(r.Status))
	}
	r.Status = ReservationStatusCancelled
	r.UpdatedAt = time.Now()
	r.AddDomainEvent(NewReservationCancelledEvent(r))
	return nil
}

// IsActive reports whether the reservation still holds stock
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// IsExpired reports whether a pending reservation has passed its expiry
func (r *Reservation) IsExpired() bool {
	return r.Status == ReservationStatusPending && r.ExpiresAt != nil && time.Now().After(*r.ExpiresAt)
}
