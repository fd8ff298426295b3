package task

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to the target status is allowed
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	transitions := map[TaskStatus][]TaskStatus{
		TaskStatusTodo:       {TaskStatusInProgress, TaskStatusCancelled},
		TaskStatusInProgress: {TaskStatusReview, TaskStatusDone, TaskStatusTodo, TaskStatusCancelled},
		TaskStatusReview:     {TaskStatusDone, TaskStatusInProgress, TaskStatusCancelled},
		TaskStatusDone:       {},
		TaskStatusCancelled:  {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the task reached a final state
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusCancelled
}

// TaskPriority orders tasks in a list
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of work. It is either assigned to a specific user or
// posted to a role pool, where any user holding the role can claim it.
type Task struct {
	shared.BaseAggregateRoot
	Title       string       `gorm:"type:varchar(300);not null"`
	Description string       `gorm:"type:varchar(4000)"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium';index"`
	AssigneeID  *uuid.UUID   `gorm:"type:uuid;index"`
	PoolRole    string       `gorm:"type:varchar(50);index"` // Role code the task is pooled for; empty when assigned
	DealID      *uuid.UUID   `gorm:"type:uuid;index"`
	DueDate     *time.Time   `gorm:"index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a task assigned to a user
func NewTask(title, description string, assigneeID uuid.UUID) (*Task, error) {
	t, err := newTask(title, description)
	if err != nil {
		return nil, err
	}
	if assigneeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	t.AssigneeID = &assigneeID
	t.AddDomainEvent(NewTaskCreatedEvent(t))
	return t, nil
}

// NewPoolTask creates a task any member of a role can claim
func NewPoolTask(title, description, poolRole string) (*Task, error) {
	t, err := newTask(title, description)
	if err != nil {
		return nil, err
	}
	poolRole = strings.ToLower(strings.TrimSpace(poolRole))
	if poolRole == "" {
		return nil, shared.NewDomainError("INVALID_ROLE", "Pool role is required")
	}
	t.PoolRole = poolRole
	t.AddDomainEvent(NewTaskCreatedEvent(t))
	return t, nil
}

func newTask(title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		Status:            TaskStatusTodo,
		Priority:          TaskPriorityMedium,
	}, nil
}

// Update changes descriptive fields
func (t *Task) Update(title, description string) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("TASK_CLOSED", "Cannot edit a finished task")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now()
	return nil
}

// SetPriority changes the priority
func (t *Task) SetPriority(priority TaskPriority) error {
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid priority: "+string(priority))
	}
	t.Priority = priority
	t.UpdatedAt = time.Now()
	return nil
}

// SetDueDate sets or clears the deadline
func (t *Task) SetDueDate(due *time.Time) {
	t.DueDate = due
	t.UpdatedAt = time.Now()
}

// LinkDeal associates the task with a deal
func (t *Task) LinkDeal(dealID uuid.UUID) {
	t.DealID = &dealID
	t.UpdatedAt = time.Now()
}

// Claim takes a pooled task for a user. Claiming an already-assigned task
// fails; the persistence layer's optimistic lock turns concurrent claims
// into a conflict for the loser.
func (t *Task) Claim(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "User is required")
	}
	if t.PoolRole == "" {
		return shared.NewDomainError("NOT_POOLED", "Task is not in a pool")
	}
	if t.AssigneeID != nil {
		return shared.NewDomainError("ALREADY_CLAIMED", "Task has already been claimed")
	}
	if t.Status.IsTerminal() {
		return shared.NewDomainError("TASK_CLOSED", "Cannot claim a finished task")
	}
	t.AssigneeID = &userID
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTaskClaimedEvent(t, userID))
	return nil
}

// Reassign hands the task to another user
func (t *Task) Reassign(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "User is required")
	}
	if t.Status.IsTerminal() {
		return shared.NewDomainError("TASK_CLOSED", "Cannot reassign a finished task")
	}
	t.AssigneeID = &userID
	t.UpdatedAt = time.Now()
	return nil
}

// ReturnToPool releases a claimed pooled task back to its role pool
func (t *Task) ReturnToPool() error {
	if t.PoolRole == "" {
		return shared.NewDomainError("NOT_POOLED", "Task is not in a pool")
	}
	if t.Status.IsTerminal() {
		return shared.NewDomainError("TASK_CLOSED", "Cannot return a finished task")
	}
	t.AssigneeID = nil
	if t.Status != TaskStatusTodo {
		t.Status = TaskStatusTodo
	}
	t.UpdatedAt = time.Now()
	return nil
}

// Transition moves the task to a new workflow status
func (t *Task) Transition(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid status: "+string(target))
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot transition from "+string(t.Status)+" to "+string(target))
	}
	if target == TaskStatusInProgress && t.AssigneeID == nil {
		return shared.NewDomainError("UNASSIGNED", "Task must be assigned before starting")
	}
	t.Status = target
	if target == TaskStatusDone {
		now := time.Now()
		t.CompletedAt = &now
		t.AddDomainEvent(NewTaskCompletedEvent(t))
	}
	t.UpdatedAt = time.Now()
	return nil
}

// IsOverdue reports whether an unfinished task passed its deadline
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && !t.Status.IsTerminal() && time.Now().After(*t.DueDate)
}
