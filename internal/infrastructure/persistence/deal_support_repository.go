package persistence

import (
	"context"
	"errors"

	"github.com/furniflow/backend/internal/domain/deal"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealDocumentRepository implements deal.DocumentRepository using GORM
type GormDealDocumentRepository struct {
	db *gorm.DB
}

// NewGormDealDocumentRepository creates a new GormDealDocumentRepository
func NewGormDealDocumentRepository(db *gorm.DB) *GormDealDocumentRepository {
	return &GormDealDocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *GormDealDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Document, error) {
	var doc deal.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumber finds a document by its number
func (r *GormDealDocumentRepository) FindByNumber(ctx context.Context, number string) (*deal.Document, error) {
	var doc deal.Document
	if err := r.db.WithContext(ctx).First(&doc, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByDeal lists a deal's documents, newest first
func (r *GormDealDocumentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*deal.Document, error) {
	var docs []*deal.Document
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document
func (r *GormDealDocumentRepository) Save(ctx context.Context, doc *deal.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// GormDealMessageRepository implements deal.MessageRepository using GORM
type GormDealMessageRepository struct {
	db *gorm.DB
}

// NewGormDealMessageRepository creates a new GormDealMessageRepository
func NewGormDealMessageRepository(db *gorm.DB) *GormDealMessageRepository {
	return &GormDealMessageRepository{db: db}
}

// FindByDeal lists a deal's timeline messages, newest first
func (r *GormDealMessageRepository) FindByDeal(ctx context.Context, dealID uuid.UUID, filter shared.Filter) ([]*deal.Message, error) {
	var messages []*deal.Message
	if err := r.db.WithContext(ctx).
		Model(&deal.Message{}).
		Where("deal_id = ?", dealID).
		Scopes(paginate(filter)).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// Save creates a message
func (r *GormDealMessageRepository) Save(ctx context.Context, m *deal.Message) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes a message
func (r *GormDealMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&deal.Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormDealAttachmentRepository implements deal.AttachmentRepository using GORM
type GormDealAttachmentRepository struct {
	db *gorm.DB
}

// NewGormDealAttachmentRepository creates a new GormDealAttachmentRepository
func NewGormDealAttachmentRepository(db *gorm.DB) *GormDealAttachmentRepository {
	return &GormDealAttachmentRepository{db: db}
}

// FindByID finds an attachment by ID
func (r *GormDealAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Attachment, error) {
	var a deal.Attachment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByDeal lists a deal's attachments
func (r *GormDealAttachmentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*deal.Attachment, error) {
	var attachments []*deal.Attachment
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Save creates an attachment record
func (r *GormDealAttachmentRepository) Save(ctx context.Context, a *deal.Attachment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete removes an attachment record
func (r *GormDealAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&deal.Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ deal.DocumentRepository   = (*GormDealDocumentRepository)(nil)
	_ deal.MessageRepository    = (*GormDealMessageRepository)(nil)
	_ deal.AttachmentRepository = (*GormDealAttachmentRepository)(nil)
)
