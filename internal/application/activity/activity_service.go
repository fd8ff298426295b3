package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/activity"
	"github.com/furniflow/backend/internal/domain/shared"
)

// EntryResponse represents one audit trail line in API responses
type EntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EntryListFilter represents query parameters for the audit trail
type EntryListFilter struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	EventType     string `form:"event_type"`
	AggregateType string `form:"aggregate_type"`
	ActorID       string `form:"actor_id"`
}

// ActivityService serves the audit trail read side
type ActivityService struct {
	repo activity.Repository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo activity.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

// List retrieves audit entries, newest first
func (s *ActivityService) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "occurred_at"
	domainFilter.OrderDir = "desc"
	if filter.EventType != "" {
		domainFilter.Filters["event_type"] = filter.EventType
	}
	if filter.AggregateType != "" {
		domainFilter.Filters["aggregate_type"] = filter.AggregateType
	}
	if filter.ActorID != "" {
		domainFilter.Filters["actor_id"] = filter.ActorID
	}

	entries, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toEntryResponses(entries), total, nil
}

// ListByAggregate retrieves the trail of a single record, newest first
func (s *ActivityService) ListByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]EntryResponse, error) {
	entries, err := s.repo.FindByAggregate(ctx, aggregateType, aggregateID, filter)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

func toEntryResponses(entries []*activity.Entry) []EntryResponse {
	result := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		payload := json.RawMessage(e.Payload)
		if !json.Valid(payload) {
			payload = json.RawMessage("{}")
		}
		result = append(result, EntryResponse{
			ID:            e.ID,
			EventType:     e.EventType,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			ActorID:       e.ActorID,
			Payload:       payload,
			OccurredAt:    e.OccurredAt,
		})
	}
	return result
}
