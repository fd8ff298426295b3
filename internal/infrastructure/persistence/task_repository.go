package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists tasks matching the filter
func (r *GormTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*task.Task, error) {
	var tasks []*task.Task
	query := r.db.WithContext(ctx).Model(&task.Task{}).
		Scopes(paginate(filter), order(filter, "due_date", "priority", "created_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignee lists tasks assigned to a user
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]*task.Task, error) {
	var tasks []*task.Task
	query := r.db.WithContext(ctx).Model(&task.Task{}).
		Where("assignee_id = ?", assigneeID).
		Scopes(paginate(filter), order(filter, "due_date", "priority", "created_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindPool lists unclaimed tasks pooled for a role
func (r *GormTaskRepository) FindPool(ctx context.Context, roleCode string, filter shared.Filter) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("pool_role = ? AND assignee_id IS NULL AND status = ?", roleCode, task.TaskStatusTodo).
		Scopes(paginate(filter)).
		Order("priority DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByDeal lists tasks linked to a deal
func (r *GormTaskRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOverdue lists unfinished tasks past their deadline
func (r *GormTaskRepository) FindOverdue(ctx context.Context) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?",
			time.Now(), []task.TaskStatus{task.TaskStatusDone, task.TaskStatusCancelled}).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&task.Task{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Save updates a task under optimistic locking. Concurrent claims on a
// pooled task race on the version column; the loser gets a conflict.
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	result := r.db.WithContext(ctx).
		Model(t).
		Where("id = ? AND version = ?", t.ID, t.GetVersion()).
		Updates(map[string]interface{}{
			"title":        t.Title,
			"description":  t.Description,
			"status":       t.Status,
			"priority":     t.Priority,
			"assignee_id":  t.AssigneeID,
			"pool_role":    t.PoolRole,
			"deal_id":      t.DealID,
			"due_date":     t.DueDate,
			"completed_at": t.CompletedAt,
			"version":      t.GetVersion() + 1,
			"updated_at":   t.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	t.IncrementVersion()
	return nil
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?)", pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "pool_role":
			query = query.Where("pool_role = ?", value)
		case "deal_id":
			query = query.Where("deal_id = ?", value)
		}
	}
	return query
}

var _ task.Repository = (*GormTaskRepository)(nil)
