package procurement

import (
	"context"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for procurement comparisons. A
// comparison is loaded and stored with its rows; Save rewrites the match
// columns so a re-run never leaves stale pairings behind.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comparison, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Comparison, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, c *Comparison) error
	Save(ctx context.Context, c *Comparison) error
	Delete(ctx context.Context, id uuid.UUID) error
}
