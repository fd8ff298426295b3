package warehouse

import (
	"context"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository defines persistence for warehouse items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Item, error)
	// FindCatalog lists every item without pagination, for matching runs
	FindCatalog(ctx context.Context) ([]*Item, error)
	FindBelowMinimum(ctx context.Context) ([]*Item, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, item *Item) error
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines persistence for the stock movement ledger
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*Transaction, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tx *Transaction) error
}

// ReservationRepository defines persistence for stock reservations
type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*Reservation, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*Reservation, error)
	FindActive(ctx context.Context, filter shared.Filter) ([]*Reservation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Reservation, error)
	FindExpired(ctx context.Context) ([]*Reservation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, reservation *Reservation) error
	Save(ctx context.Context, reservation *Reservation) error
	// CreateWithItem inserts the reservation and persists the item's
	// stock change in a single transaction.
	CreateWithItem(ctx context.Context, reservation *Reservation, item *Item) error
	// SaveWithItem updates the reservation together with the item's
	// stock change, optionally recording a ledger entry, in a single
	// transaction. A nil entry skips the ledger write.
	SaveWithItem(ctx context.Context, reservation *Reservation, item *Item, entry *Transaction) error
}
