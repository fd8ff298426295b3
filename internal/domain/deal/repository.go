package deal

import (
	"context"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for deals
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)
	FindByNumber(ctx context.Context, number string) (*Deal, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Deal, error)
	FindByPipeline(ctx context.Context, pipelineID uuid.UUID, filter shared.Filter) ([]*Deal, error)
	FindByStage(ctx context.Context, stageID uuid.UUID) ([]*Deal, error)
	CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, d *Deal) error
	Save(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository defines persistence for deal documents
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByNumber(ctx context.Context, number string) (*Document, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// MessageRepository defines persistence for deal timeline messages
type MessageRepository interface {
	FindByDeal(ctx context.Context, dealID uuid.UUID, filter shared.Filter) ([]*Message, error)
	Save(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentRepository defines persistence for deal attachments
type AttachmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*Attachment, error)
	Save(ctx context.Context, a *Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
