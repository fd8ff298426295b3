package montage

import (
	"context"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for montage orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*Order, error)
	FindScheduledBetween(ctx context.Context, from, to time.Time) ([]*Order, error)
	FindByInstaller(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository defines persistence for installation line items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
