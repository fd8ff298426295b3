package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/procurement"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProcurementRepository implements procurement.Repository using GORM
type GormProcurementRepository struct {
	db *gorm.DB
}

// NewGormProcurementRepository creates a new GormProcurementRepository
func NewGormProcurementRepository(db *gorm.DB) *GormProcurementRepository {
	return &GormProcurementRepository{db: db}
}

// FindByID loads a comparison with its rows in sheet order
func (r *GormProcurementRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Comparison, error) {
	var c procurement.Comparison
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("row_index ASC") }).
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll lists comparisons without their row detail
func (r *GormProcurementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*procurement.Comparison, error) {
	var comparisons []*procurement.Comparison
	query := r.db.WithContext(ctx).Model(&procurement.Comparison{}).
		Scopes(paginate(filter), order(filter, "number", "created_at"))
	query = r.applyFilters(query, filter)

	if err := query.Find(&comparisons).Error; err != nil {
		return nil, err
	}
	return comparisons, nil
}

// Count counts comparisons
func (r *GormProcurementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.Comparison{})
	query = r.applyFilters(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProcurementRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR LOWER(file_name) LIKE LOWER(?)", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	return query
}

// Create inserts a comparison with its rows
func (r *GormProcurementRepository) Create(ctx context.Context, c *procurement.Comparison) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save updates the comparison header under optimistic locking and
// rewrites the match columns of every row, so a re-run replaces the
// previous result set.
func (r *GormProcurementRepository) Save(ctx context.Context, c *procurement.Comparison) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(c).
			Where("id = ? AND version = ?", c.ID, c.GetVersion()).
			Updates(map[string]interface{}{
				"status":         c.Status,
				"error":          c.Error,
				"matched_rows":   c.MatchedRows,
				"unmatched_rows": c.UnmatchedRows,
				"matched_at":     c.MatchedAt,
				"version":        c.GetVersion() + 1,
				"updated_at":     c.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range c.Items {
			item := &c.Items[i]
			if err := tx.Model(item).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"matched_item_id":  item.MatchedItemID,
					"match_status":     item.MatchStatus,
					"match_method":     item.MatchMethod,
					"match_confidence": item.MatchConfidence,
					"quantity_diff":    item.QuantityDiff,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// Delete removes a comparison and its rows
func (r *GormProcurementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&procurement.ComparisonItem{}, "comparison_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.Comparison{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ procurement.Repository = (*GormProcurementRepository)(nil)
