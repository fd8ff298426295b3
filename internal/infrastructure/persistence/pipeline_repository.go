package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/pipeline"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPipelineRepository implements pipeline.Repository using GORM
type GormPipelineRepository struct {
	db *gorm.DB
}

// NewGormPipelineRepository creates a new GormPipelineRepository
func NewGormPipelineRepository(db *gorm.DB) *GormPipelineRepository {
	return &GormPipelineRepository{db: db}
}

// FindByID finds a pipeline with its stages by ID
func (r *GormPipelineRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Pipeline, error) {
	var p pipeline.Pipeline
	if err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindDefault finds the default pipeline for new deals
func (r *GormPipelineRepository) FindDefault(ctx context.Context) (*pipeline.Pipeline, error) {
	var p pipeline.Pipeline
	if err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, "is_default = ? AND is_archived = ?", true, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll lists pipelines with their stages
func (r *GormPipelineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*pipeline.Pipeline, error) {
	var pipelines []*pipeline.Pipeline
	query := r.db.WithContext(ctx).Model(&pipeline.Pipeline{}).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(paginate(filter), order(filter, "name", "created_at"))
	if archived, ok := filter.Filters["archived"]; ok {
		query = query.Where("is_archived = ?", archived)
	}

	if err := query.Find(&pipelines).Error; err != nil {
		return nil, err
	}
	return pipelines, nil
}

// Count counts pipelines
func (r *GormPipelineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&pipeline.Pipeline{})
	if archived, ok := filter.Filters["archived"]; ok {
		query = query.Where("is_archived = ?", archived)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new pipeline with its stages
func (r *GormPipelineRepository) Create(ctx context.Context, p *pipeline.Pipeline) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stages").Create(p).Error; err != nil {
			return err
		}
		if len(p.Stages) > 0 {
			if err := tx.Create(&p.Stages).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save updates a pipeline under optimistic locking. Stages are replaced
// wholesale inside the same transaction so removed and reordered stages
// persist correctly.
func (r *GormPipelineRepository) Save(ctx context.Context, p *pipeline.Pipeline) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(p).
			Where("id = ? AND version = ?", p.ID, p.GetVersion()).
			Updates(map[string]interface{}{
				"name":        p.Name,
				"description": p.Description,
				"is_default":  p.IsDefault,
				"is_archived": p.IsArchived,
				"version":     p.GetVersion() + 1,
				"updated_at":  p.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Delete(&pipeline.Stage{}, "pipeline_id = ?", p.ID).Error; err != nil {
			return err
		}
		if len(p.Stages) > 0 {
			if err := tx.Create(&p.Stages).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Delete removes a pipeline and its stages
func (r *GormPipelineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&pipeline.Stage{}, "pipeline_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&pipeline.Pipeline{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ pipeline.Repository = (*GormPipelineRepository)(nil)
