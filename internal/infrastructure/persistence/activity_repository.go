package persistence

import (
	"context"

	"github.com/furniflow/backend/internal/domain/activity"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByAggregate lists the audit trail of one aggregate, newest first
func (r *GormActivityRepository) FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]*activity.Entry, error) {
	var entries []*activity.Entry
	if err := r.db.WithContext(ctx).
		Model(&activity.Entry{}).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).
		Scopes(paginate(filter)).
		Order("occurred_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll lists audit entries matching the filter
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*activity.Entry, error) {
	var entries []*activity.Entry
	query := r.db.WithContext(ctx).Model(&activity.Entry{}).
		Scopes(paginate(filter)).
		Order("occurred_at DESC")
	query = r.applyFilters(query, filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&activity.Entry{})
	query = r.applyFilters(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts an audit entry. Entries are immutable.
func (r *GormActivityRepository) Save(ctx context.Context, e *activity.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *GormActivityRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "event_type":
			query = query.Where("event_type = ?", value)
		case "aggregate_type":
			query = query.Where("aggregate_type = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}
	return query
}

var _ activity.Repository = (*GormActivityRepository)(nil)
