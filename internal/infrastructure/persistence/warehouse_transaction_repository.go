package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseTransactionRepository implements warehouse.TransactionRepository using GORM
type GormWarehouseTransactionRepository struct {
	db *gorm.DB
}

// NewGormWarehouseTransactionRepository creates a new GormWarehouseTransactionRepository
func NewGormWarehouseTransactionRepository(db *gorm.DB) *GormWarehouseTransactionRepository {
	return &GormWarehouseTransactionRepository{db: db}
}

// FindByID finds a ledger entry by ID
func (r *GormWarehouseTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Transaction, error) {
	var tx warehouse.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByItem lists ledger entries for an item, newest first
func (r *GormWarehouseTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*warehouse.Transaction, error) {
	var txs []*warehouse.Transaction
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Transaction{}).
		Where("item_id = ?", itemID).
		Scopes(paginate(filter)).
		Order("occurred_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindAll lists ledger entries matching the filter
func (r *GormWarehouseTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Transaction, error) {
	var txs []*warehouse.Transaction
	query := r.db.WithContext(ctx).Model(&warehouse.Transaction{}).
		Scopes(paginate(filter)).
		Order("occurred_at DESC")
	query = r.applyFilters(query, filter)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByIdempotencyKey finds the ledger entry recorded for a dedup key
func (r *GormWarehouseTransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*warehouse.Transaction, error) {
	var tx warehouse.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Count counts ledger entries matching the filter
func (r *GormWarehouseTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&warehouse.Transaction{})
	query = r.applyFilters(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a ledger entry. Entries are immutable so this is always an insert.
func (r *GormWarehouseTransactionRepository) Save(ctx context.Context, tx *warehouse.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *GormWarehouseTransactionRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "deal_id":
			query = query.Where("deal_id = ?", value)
		}
	}
	return query
}

var _ warehouse.TransactionRepository = (*GormWarehouseTransactionRepository)(nil)
