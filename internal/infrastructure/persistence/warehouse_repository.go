package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseItemRepository implements warehouse.ItemRepository using GORM
type GormWarehouseItemRepository struct {
	db *gorm.DB
}

// NewGormWarehouseItemRepository creates a new GormWarehouseItemRepository
func NewGormWarehouseItemRepository(db *gorm.DB) *GormWarehouseItemRepository {
	return &GormWarehouseItemRepository{db: db}
}

// FindByID finds a warehouse item by ID
func (r *GormWarehouseItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Item, error) {
	var item warehouse.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds a warehouse item by SKU
func (r *GormWarehouseItemRepository) FindBySKU(ctx context.Context, sku string) (*warehouse.Item, error) {
	var item warehouse.Item
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll lists warehouse items matching the filter
func (r *GormWarehouseItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Item, error) {
	var items []*warehouse.Item
	query := r.db.WithContext(ctx).Model(&warehouse.Item{}).
		Scopes(paginate(filter), order(filter, "sku", "name", "quantity", "created_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindCatalog lists every item ordered by SKU
func (r *GormWarehouseItemRepository) FindCatalog(ctx context.Context) ([]*warehouse.Item, error) {
	var items []*warehouse.Item
	if err := r.db.WithContext(ctx).
		Order("sku ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum lists items under their low-stock threshold
func (r *GormWarehouseItemRepository) FindBelowMinimum(ctx context.Context) ([]*warehouse.Item, error) {
	var items []*warehouse.Item
	if err := r.db.WithContext(ctx).
		Where("min_quantity > 0 AND quantity < min_quantity").
		Order("sku ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts warehouse items matching the filter
func (r *GormWarehouseItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&warehouse.Item{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if an item with the SKU exists
func (r *GormWarehouseItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Item{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new warehouse item
func (r *GormWarehouseItemRepository) Create(ctx context.Context, item *warehouse.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save updates a warehouse item under optimistic locking. Stock fields are
// only written when the stored version matches the one the aggregate was
// loaded with, so concurrent movements cannot silently overwrite each other.
func (r *GormWarehouseItemRepository) Save(ctx context.Context, item *warehouse.Item) error {
	if err := updateItemLocked(r.db.WithContext(ctx), item); err != nil {
		return err
	}
	item.IncrementVersion()
	return nil
}

// updateItemLocked writes the item with a version predicate on the given
// handle, which may be a transaction. The caller bumps the in-memory
// version after the enclosing transaction commits.
func updateItemLocked(db *gorm.DB, item *warehouse.Item) error {
	result := db.
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.GetVersion()).
		Updates(map[string]interface{}{
			"name":              item.Name,
			"category":          item.Category,
			"unit":              item.Unit,
			"quantity":          item.Quantity,
			"reserved_quantity": item.ReservedQuantity,
			"unit_price":        item.UnitPrice,
			"min_quantity":      item.MinQuantity,
			"location":          item.Location,
			"description":       item.Description,
			"version":           item.GetVersion() + 1,
			"updated_at":        item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a warehouse item
func (r *GormWarehouseItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&warehouse.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormWarehouseItemRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND quantity < min_quantity")
			}
		case "has_stock":
			if value == true {
				query = query.Where("quantity - reserved_quantity > 0")
			}
		}
	}
	return query
}

var _ warehouse.ItemRepository = (*GormWarehouseItemRepository)(nil)
