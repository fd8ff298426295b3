package pipeline

import (
	"context"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for sales pipelines and their stages
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pipeline, error)
	FindDefault(ctx context.Context) (*Pipeline, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Pipeline, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, p *Pipeline) error
	Save(ctx context.Context, p *Pipeline) error
	Delete(ctx context.Context, id uuid.UUID) error
}
