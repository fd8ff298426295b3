package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/task"
)

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	PoolRole    string     `json:"pool_role,omitempty"`
	DealID      *uuid.UUID `json:"deal_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToTaskResponse maps a task aggregate to its response form
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssigneeID:  t.AssigneeID,
		PoolRole:    t.PoolRole,
		DealID:      t.DealID,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		IsOverdue:   t.IsOverdue(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.GetVersion(),
	}
}

// ToTaskResponses maps a slice of tasks
func ToTaskResponses(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, ToTaskResponse(t))
	}
	return result
}

// CreateTaskRequest represents a request to create a task. Exactly one
// of assignee_id and pool_role must be set.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	PoolRole    string     `json:"pool_role"`
	DealID      *uuid.UUID `json:"deal_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest represents a request to edit a task
type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

// TransitionTaskRequest represents a status change request
type TransitionTaskRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress done cancelled"`
}

// ReassignTaskRequest represents a request to hand a task to a user
type ReassignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// TaskListFilter represents filter options for the task list
type TaskListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=todo in_progress done cancelled"`
	Priority   string     `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID *uuid.UUID `form:"assignee_id"`
	PoolRole   string     `form:"pool_role"`
	DealID     *uuid.UUID `form:"deal_id"`
	Overdue    *bool      `form:"overdue"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CommentResponse represents a task comment
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostCommentRequest represents a request to comment on a task
type PostCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// ChecklistItemResponse represents one checklist entry
type ChecklistItemResponse struct {
	ID       uuid.UUID `json:"id"`
	TaskID   uuid.UUID `json:"task_id"`
	Text     string    `json:"text"`
	Position int       `json:"position"`
	Done     bool      `json:"done"`
}

// AddChecklistItemRequest represents a request to append a checklist item
type AddChecklistItemRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReorderChecklistRequest represents a request to reorder a checklist
type ReorderChecklistRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// TaskAttachmentResponse represents a task attachment
type TaskAttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	ObjectKey   string    `json:"object_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterTaskAttachmentRequest records an uploaded file against a task
type RegisterTaskAttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
	ObjectKey   string `json:"object_key" binding:"required"`
}
