package activity

import (
	"context"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is one line of the audit trail. Entries are written by the event
// recorder when domain events fire and are never modified afterwards.
type Entry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(100);not null;index"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID       *uuid.UUID `gorm:"type:uuid;index"`
	Payload       string    `gorm:"type:text"` // Event body as JSON
	OccurredAt    time.Time `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "activity_entries"
}

// NewEntry creates an audit trail entry from a domain event
func NewEntry(eventType, aggregateType string, aggregateID uuid.UUID, actorID *uuid.UUID, payload string, occurredAt time.Time) (*Entry, error) {
	if eventType == "" || aggregateType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event and aggregate types are required")
	}
	if aggregateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGGREGATE", "Aggregate ID is required")
	}

	return &Entry{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		ActorID:       actorID,
		Payload:       payload,
		OccurredAt:    occurredAt,
		CreatedAt:     time.Now(),
	}, nil
}

// Repository defines persistence for the audit trail
type Repository interface {
	FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]*Entry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Entry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, e *Entry) error
}
