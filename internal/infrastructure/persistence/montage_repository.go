package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/furniflow/backend/internal/domain/montage"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMontageRepository implements montage.Repository using GORM
type GormMontageRepository struct {
	db *gorm.DB
}

// NewGormMontageRepository creates a new GormMontageRepository
func NewGormMontageRepository(db *gorm.DB) *GormMontageRepository {
	return &GormMontageRepository{db: db}
}

// FindByID finds an order with its crew by ID
func (r *GormMontageRepository) FindByID(ctx context.Context, id uuid.UUID) (*montage.Order, error) {
	var o montage.Order
	if err := r.db.WithContext(ctx).Preload("Installers").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber finds an order by its number
func (r *GormMontageRepository) FindByNumber(ctx context.Context, number string) (*montage.Order, error) {
	var o montage.Order
	if err := r.db.WithContext(ctx).Preload("Installers").First(&o, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists orders matching the filter
func (r *GormMontageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*montage.Order, error) {
	var orders []*montage.Order
	query := r.db.WithContext(ctx).Model(&montage.Order{}).
		Preload("Installers").
		Scopes(paginate(filter), order(filter, "number", "scheduled_date", "created_at"))
	query = r.applySearch(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByDeal lists orders for a deal
func (r *GormMontageRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*montage.Order, error) {
	var orders []*montage.Order
	if err := r.db.WithContext(ctx).
		Preload("Installers").
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindScheduledBetween lists orders scheduled inside the date window
func (r *GormMontageRepository) FindScheduledBetween(ctx context.Context, from, to time.Time) ([]*montage.Order, error) {
	var orders []*montage.Order
	if err := r.db.WithContext(ctx).
		Preload("Installers").
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to).
		Order("scheduled_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByInstaller lists orders a crew member is booked on inside the window
func (r *GormMontageRepository) FindByInstaller(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*montage.Order, error) {
	var orders []*montage.Order
	if err := r.db.WithContext(ctx).
		Preload("Installers").
		Joins("JOIN montage_installers mi ON mi.order_id = montage_orders.id").
		Where("mi.user_id = ? AND montage_orders.scheduled_date >= ? AND montage_orders.scheduled_date < ?", userID, from, to).
		Order("montage_orders.scheduled_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormMontageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&montage.Order{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new order
func (r *GormMontageRepository) Create(ctx context.Context, o *montage.Order) error {
	return r.db.WithContext(ctx).Omit("Installers").Create(o).Error
}

// Save updates an order under optimistic locking. The crew list is
// replaced wholesale inside the same transaction.
func (r *GormMontageRepository) Save(ctx context.Context, o *montage.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(o).
			Where("id = ? AND version = ?", o.ID, o.GetVersion()).
			Updates(map[string]interface{}{
				"customer_name":  o.CustomerName,
				"address":        o.Address,
				"phone":          o.Phone,
				"status":         o.Status,
				"scheduled_date": o.ScheduledDate,
				"notes":          o.Notes,
				"completed_at":   o.CompletedAt,
				"cancel_reason":  o.CancelReason,
				"version":        o.GetVersion() + 1,
				"updated_at":     o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Delete(&montage.Installer{}, "order_id = ?", o.ID).Error; err != nil {
			return err
		}
		if len(o.Installers) > 0 {
			if err := tx.Create(&o.Installers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

// Delete removes an order with its crew and line items
func (r *GormMontageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&montage.Installer{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&montage.Item{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&montage.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormMontageRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(customer_name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?) OR number LIKE ?", pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ montage.Repository = (*GormMontageRepository)(nil)
