package montage

import (
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
)

// Event types for the montage domain
const (
	EventTypeOrderScheduled = "montage.order_scheduled"
	EventTypeOrderCompleted = "montage.order_completed"
)

// OrderScheduledEvent is raised when an installation gets a date and crew
type OrderScheduledEvent struct {
	shared.BaseDomainEvent
	Number        string    `json:"number"`
	ScheduledDate time.Time `json:"scheduled_date"`
	CrewSize      int       `json:"crew_size"`
}

// NewOrderScheduledEvent creates an order scheduled event
func NewOrderScheduledEvent(o *Order) *OrderScheduledEvent {
	ev := &OrderScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderScheduled, "MontageOrder", o.ID),
		Number:          o.Number,
		CrewSize:        len(o.Installers),
	}
	if o.ScheduledDate != nil {
		ev.ScheduledDate = *o.ScheduledDate
	}
	return ev
}

// OrderCompletedEvent is raised when an installation finishes
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewOrderCompletedEvent creates an order completed event
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "MontageOrder", o.ID),
		Number:          o.Number,
	}
}
