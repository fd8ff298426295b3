package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/activity"
	"github.com/furniflow/backend/internal/domain/shared"
)

// dedupTTL bounds how long processed event IDs are remembered
const dedupTTL = 24 * time.Hour

// Recorder subscribes to every domain event and writes one audit trail
// entry per event. Failures are logged and dropped; the audit trail is
// best effort and never blocks the operation that raised the event.
type Recorder struct {
	repo   activity.Repository
	dedup  shared.IdempotencyStore
	logger *zap.Logger
}

var _ shared.EventHandler = (*Recorder)(nil)

// NewRecorder creates a new Recorder
func NewRecorder(repo activity.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// SetIdempotencyStore wires a store that drops redelivered events
func (r *Recorder) SetIdempotencyStore(store shared.IdempotencyStore) {
	r.dedup = store
}

// EventTypes returns an empty slice to receive all events
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle writes one audit entry for the event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	if r.dedup != nil {
		fresh, err := r.dedup.MarkProcessed(ctx, "activity:"+event.EventID().String(), dedupTTL)
		if err != nil {
			r.logger.Warn("Event dedup check failed, recording anyway", zap.Error(err))
		} else if !fresh {
			return nil
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		payload = []byte("{}")
	}

	var actorID *uuid.UUID
	if id := event.ActorID(); id != uuid.Nil {
		actorID = &id
	}

	entry, err := activity.NewEntry(
		event.EventType(),
		event.AggregateType(),
		event.AggregateID(),
		actorID,
		string(payload),
		event.OccurredAt(),
	)
	if err != nil {
		r.logger.Warn("Skipping malformed domain event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return nil
	}

	if err := r.repo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to record activity entry",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
