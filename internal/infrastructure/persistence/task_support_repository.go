package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskCommentRepository implements task.CommentRepository using GORM
type GormTaskCommentRepository struct {
	db *gorm.DB
}

// NewGormTaskCommentRepository creates a new GormTaskCommentRepository
func NewGormTaskCommentRepository(db *gorm.DB) *GormTaskCommentRepository {
	return &GormTaskCommentRepository{db: db}
}

// FindByTask lists a task's comments, oldest first
func (r *GormTaskCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID, filter shared.Filter) ([]*task.Comment, error) {
	var comments []*task.Comment
	if err := r.db.WithContext(ctx).
		Model(&task.Comment{}).
		Where("task_id = ?", taskID).
		Scopes(paginate(filter)).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Save creates a comment
func (r *GormTaskCommentRepository) Save(ctx context.Context, c *task.Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a comment
func (r *GormTaskCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTaskChecklistRepository implements task.ChecklistRepository using GORM
type GormTaskChecklistRepository struct {
	db *gorm.DB
}

// NewGormTaskChecklistRepository creates a new GormTaskChecklistRepository
func NewGormTaskChecklistRepository(db *gorm.DB) *GormTaskChecklistRepository {
	return &GormTaskChecklistRepository{db: db}
}

// FindByID finds a checklist item by ID
func (r *GormTaskChecklistRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.ChecklistItem, error) {
	var item task.ChecklistItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByTask lists a task's checklist in position order
func (r *GormTaskChecklistRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*task.ChecklistItem, error) {
	var items []*task.ChecklistItem
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a checklist item
func (r *GormTaskChecklistRepository) Save(ctx context.Context, item *task.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a checklist item
func (r *GormTaskChecklistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.ChecklistItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTaskAttachmentRepository implements task.AttachmentRepository using GORM
type GormTaskAttachmentRepository struct {
	db *gorm.DB
}

// NewGormTaskAttachmentRepository creates a new GormTaskAttachmentRepository
func NewGormTaskAttachmentRepository(db *gorm.DB) *GormTaskAttachmentRepository {
	return &GormTaskAttachmentRepository{db: db}
}

// FindByID finds an attachment by ID
func (r *GormTaskAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Attachment, error) {
	var a task.Attachment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByTask lists a task's attachments
func (r *GormTaskAttachmentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*task.Attachment, error) {
	var attachments []*task.Attachment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Save creates an attachment record
func (r *GormTaskAttachmentRepository) Save(ctx context.Context, a *task.Attachment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete removes an attachment record
func (r *GormTaskAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ task.CommentRepository    = (*GormTaskCommentRepository)(nil)
	_ task.ChecklistRepository  = (*GormTaskChecklistRepository)(nil)
	_ task.AttachmentRepository = (*GormTaskAttachmentRepository)(nil)
)
