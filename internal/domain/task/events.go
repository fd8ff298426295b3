package task

import (
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the task domain
const (
	EventTypeTaskCreated   = "task.created"
	EventTypeTaskClaimed   = "task.claimed"
	EventTypeTaskCompleted = "task.completed"
)

// TaskCreatedEvent is raised when a task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title    string `json:"title"`
	PoolRole string `json:"pool_role,omitempty"`
	Assignee string `json:"assignee,omitempty"`
}

// NewTaskCreatedEvent creates a task created event
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	ev := &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, "Task", t.ID),
		Title:           t.Title,
		PoolRole:        t.PoolRole,
	}
	if t.AssigneeID != nil {
		ev.Assignee = t.AssigneeID.String()
	}
	return ev
}

// TaskClaimedEvent is raised when a pooled task is claimed
type TaskClaimedEvent struct {
	shared.BaseDomainEvent
	Title    string `json:"title"`
	PoolRole string `json:"pool_role"`
	Assignee string `json:"assignee"`
}

// NewTaskClaimedEvent creates a task claimed event
func NewTaskClaimedEvent(t *Task, userID uuid.UUID) *TaskClaimedEvent {
	return &TaskClaimedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskClaimed, "Task", t.ID),
		Title:           t.Title,
		PoolRole:        t.PoolRole,
		Assignee:        userID.String(),
	}
}

// TaskCompletedEvent is raised when a task reaches done
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskCompletedEvent creates a task completed event
func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, "Task", t.ID),
		Title:           t.Title,
	}
}
