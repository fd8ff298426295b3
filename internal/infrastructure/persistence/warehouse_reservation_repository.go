package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseReservationRepository implements warehouse.ReservationRepository using GORM
type GormWarehouseReservationRepository struct {
	db *gorm.DB
}

// NewGormWarehouseReservationRepository creates a new GormWarehouseReservationRepository
func NewGormWarehouseReservationRepository(db *gorm.DB) *GormWarehouseReservationRepository {
	return &GormWarehouseReservationRepository{db: db}
}

// FindByID finds a reservation by ID
func (r *GormWarehouseReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Reservation, error) {
	var res warehouse.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindByItem lists reservations on an item
func (r *GormWarehouseReservationRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*warehouse.Reservation, error) {
	var reservations []*warehouse.Reservation
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByDeal lists reservations made for a deal
func (r *GormWarehouseReservationRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*warehouse.Reservation, error) {
	var reservations []*warehouse.Reservation
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActive lists reservations still holding stock
func (r *GormWarehouseReservationRepository) FindActive(ctx context.Context, filter shared.Filter) ([]*warehouse.Reservation, error) {
	var reservations []*warehouse.Reservation
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Reservation{}).
		Where("status IN ?", []warehouse.ReservationStatus{warehouse.ReservationStatusPending, warehouse.ReservationStatusConfirmed}).
		Scopes(paginate(filter)).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindAll lists reservations matching the filter
func (r *GormWarehouseReservationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Reservation, error) {
	var reservations []*warehouse.Reservation
	query := r.db.WithContext(ctx).Model(&warehouse.Reservation{}).
		Scopes(paginate(filter)).
		Order("created_at DESC")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired lists pending reservations past their expiry
func (r *GormWarehouseReservationRepository) FindExpired(ctx context.Context) ([]*warehouse.Reservation, error) {
	var reservations []*warehouse.Reservation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", warehouse.ReservationStatusPending, time.Now()).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Count counts reservations matching the filter
func (r *GormWarehouseReservationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&warehouse.Reservation{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new reservation
func (r *GormWarehouseReservationRepository) Create(ctx context.Context, reservation *warehouse.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Save updates a reservation under optimistic locking
func (r *GormWarehouseReservationRepository) Save(ctx context.Context, reservation *warehouse.Reservation) error {
	if err := updateReservationLocked(r.db.WithContext(ctx), reservation); err != nil {
		return err
	}
	reservation.IncrementVersion()
	return nil
}

// CreateWithItem inserts the reservation and writes the item's stock change
// in one transaction, so a failed insert cannot leave stock held with no
// reservation row behind it.
func (r *GormWarehouseReservationRepository) CreateWithItem(ctx context.Context, reservation *warehouse.Reservation, item *warehouse.Item) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateItemLocked(tx, item); err != nil {
			return err
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		return err
	}
	item.IncrementVersion()
	return nil
}

// SaveWithItem updates the reservation and the item's stock change
// atomically, appending a ledger entry when one is given.
func (r *GormWarehouseReservationRepository) SaveWithItem(ctx context.Context, reservation *warehouse.Reservation, item *warehouse.Item, entry *warehouse.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateItemLocked(tx, item); err != nil {
			return err
		}
		if err := updateReservationLocked(tx, reservation); err != nil {
			return err
		}
		if entry != nil {
			return tx.Create(entry).Error
		}
		return nil
	})
	if err != nil {
		return err
	}
	item.IncrementVersion()
	reservation.IncrementVersion()
	return nil
}

func updateReservationLocked(db *gorm.DB, reservation *warehouse.Reservation) error {
	result := db.
		Model(reservation).
		Where("id = ? AND version = ?", reservation.ID, reservation.GetVersion()).
		Updates(map[string]interface{}{
			"status":     reservation.Status,
			"purpose":    reservation.Purpose,
			"expires_at": reservation.ExpiresAt,
			"version":    reservation.GetVersion() + 1,
			"updated_at": reservation.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ warehouse.ReservationRepository = (*GormWarehouseReservationRepository)(nil)
