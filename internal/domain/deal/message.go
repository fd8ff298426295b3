package deal

import (
	"strings"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Message is an internal note on a deal's timeline, written by a manager
type Message struct {
	shared.BaseEntity
	DealID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Body     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "deal_messages"
}

// NewMessage creates a timeline message
func NewMessage(dealID, authorID uuid.UUID, body string) (*Message, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Deal ID is required")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}

	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		DealID:     dealID,
		AuthorID:   authorID,
		Body:       body,
	}, nil
}

// Attachment is a file linked to a deal, stored in object storage
type Attachment struct {
	shared.BaseEntity
	DealID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	FileName    string    `gorm:"type:varchar(300);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null"`
	ObjectKey   string    `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "deal_attachments"
}

// NewAttachment records an uploaded file against a deal
func NewAttachment(dealID, uploadedBy uuid.UUID, fileName, contentType, objectKey string, sizeBytes int64) (*Attachment, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Deal ID is required")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File name cannot be empty")
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Object key cannot be empty")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "File size must be positive")
	}

	return &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		DealID:      dealID,
		UploadedBy:  uploadedBy,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		ObjectKey:   objectKey,
	}, nil
}
