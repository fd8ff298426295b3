package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/deal"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealRepository implements deal.Repository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by ID
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByNumber finds a deal by its number
func (r *GormDealRepository) FindByNumber(ctx context.Context, number string) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.db.WithContext(ctx).First(&d, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll lists deals matching the filter
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*deal.Deal, error) {
	var deals []*deal.Deal
	query := r.db.WithContext(ctx).Model(&deal.Deal{}).
		Scopes(paginate(filter), order(filter, "number", "amount", "created_at", "stage_entered_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByPipeline lists deals in a pipeline
func (r *GormDealRepository) FindByPipeline(ctx context.Context, pipelineID uuid.UUID, filter shared.Filter) ([]*deal.Deal, error) {
	var deals []*deal.Deal
	query := r.db.WithContext(ctx).Model(&deal.Deal{}).
		Where("pipeline_id = ?", pipelineID).
		Scopes(paginate(filter), order(filter, "number", "amount", "created_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByStage lists deals sitting in a stage
func (r *GormDealRepository) FindByStage(ctx context.Context, stageID uuid.UUID) ([]*deal.Deal, error) {
	var deals []*deal.Deal
	if err := r.db.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Order("stage_entered_at ASC").
		Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// CountByStage counts deals sitting in a stage
func (r *GormDealRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&deal.Deal{}).
		Where("stage_id = ?", stageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts deals matching the filter
func (r *GormDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&deal.Deal{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new deal
func (r *GormDealRepository) Create(ctx context.Context, d *deal.Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Save updates a deal under optimistic locking. A version mismatch means
// another request changed the deal first.
func (r *GormDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	result := r.db.WithContext(ctx).
		Model(d).
		Where("id = ? AND version = ?", d.ID, d.GetVersion()).
		Updates(map[string]interface{}{
			"title":            d.Title,
			"stage_id":         d.StageID,
			"status":           d.Status,
			"customer_name":    d.CustomerName,
			"customer_phone":   d.CustomerPhone,
			"customer_email":   d.CustomerEmail,
			"address":          d.Address,
			"amount":           d.Amount,
			"currency":         d.Currency,
			"manager_id":       d.ManagerID,
			"lost_reason":      d.LostReason,
			"notes":            d.Notes,
			"closed_at":        d.ClosedAt,
			"stage_entered_at": d.StageEnteredAt,
			"version":          d.GetVersion() + 1,
			"updated_at":       d.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	d.IncrementVersion()
	return nil
}

// Delete removes a deal
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&deal.Deal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDealRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?) OR number LIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "stage_id":
			query = query.Where("stage_id = ?", value)
		case "pipeline_id":
			query = query.Where("pipeline_id = ?", value)
		case "manager_id":
			query = query.Where("manager_id = ?", value)
		}
	}
	return query
}

var _ deal.Repository = (*GormDealRepository)(nil)
