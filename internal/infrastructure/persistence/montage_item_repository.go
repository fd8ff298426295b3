package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/montage"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMontageItemRepository implements montage.ItemRepository using GORM
type GormMontageItemRepository struct {
	db *gorm.DB
}

// NewGormMontageItemRepository creates a new GormMontageItemRepository
func NewGormMontageItemRepository(db *gorm.DB) *GormMontageItemRepository {
	return &GormMontageItemRepository{db: db}
}

// FindByID finds a line item by ID
func (r *GormMontageItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*montage.Item, error) {
	var item montage.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByOrder lists an order's line items, oldest first
func (r *GormMontageItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*montage.Item, error) {
	var items []*montage.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a line item
func (r *GormMontageItemRepository) Save(ctx context.Context, item *montage.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a line item
func (r *GormMontageItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&montage.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ montage.ItemRepository = (*GormMontageItemRepository)(nil)
