package task

import (
	"context"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for tasks
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Task, error)
	FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]*Task, error)
	FindPool(ctx context.Context, roleCode string, filter shared.Filter) ([]*Task, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*Task, error)
	FindOverdue(ctx context.Context) ([]*Task, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, t *Task) error
	Save(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines persistence for task comments
type CommentRepository interface {
	FindByTask(ctx context.Context, taskID uuid.UUID, filter shared.Filter) ([]*Comment, error)
	Save(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChecklistRepository defines persistence for task checklists
type ChecklistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChecklistItem, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*ChecklistItem, error)
	Save(ctx context.Context, item *ChecklistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentRepository defines persistence for task attachments
type AttachmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*Attachment, error)
	Save(ctx context.Context, a *Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
