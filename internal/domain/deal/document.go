package deal

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind classifies a generated deal document
type DocumentKind string

const (
	DocumentKindQuote    DocumentKind = "quote"
	DocumentKindInvoice  DocumentKind = "invoice"
	DocumentKindContract DocumentKind = "contract"
)

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindQuote, DocumentKindInvoice, DocumentKindContract:
		return true
	}
	return false
}

// DocumentStatus represents the document lifecycle
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusIssued    DocumentStatus = "issued"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusIssued, DocumentStatusCancelled:
		return true
	}
	return false
}

// Document is a quote, invoice or contract generated for a deal. Drafts
// can be regenerated; issuing freezes the content and stores the rendered
// PDF under ObjectKey.
type Document struct {
	shared.BaseAggregateRoot
	DealID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind      DocumentKind    `gorm:"type:varchar(20);not null;index"`
	Number    string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status    DocumentStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'RUB'"`
	ObjectKey string          `gorm:"type:varchar(500)"` // Storage key of the rendered PDF
	IssuedAt  *time.Time
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "deal_documents"
}

// NewDocument creates a draft document for a deal
func NewDocument(dealID uuid.UUID, kind DocumentKind, number string, amount decimal.Decimal, currency string) (*Document, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Deal ID is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid document kind: "+string(kind))
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Document amount cannot be negative")
	}
	if currency == "" {
		currency = "RUB"
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DealID:            dealID,
		Kind:              kind,
		Number:            number,
		Status:            DocumentStatusDraft,
		Amount:            amount,
		Currency:          currency,
	}
	doc.AddDomainEvent(NewDocumentGeneratedEvent(doc))
	return doc, nil
}

// AttachRendering stores the key of the rendered PDF. Only drafts can be
// re-rendered.
func (doc *Document) AttachRendering(objectKey string) error {
	if doc.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft document can be re-rendered")
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return shared.NewDomainError("INVALID_KEY", "Object key cannot be empty")
	}
	doc.ObjectKey = objectKey
	doc.UpdatedAt = time.Now()
	return nil
}

// Issue freezes the document. A rendered PDF must exist first.
func (doc *Document) Issue() error {
	if doc.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft document can be issued")
	}
	if doc.ObjectKey == "" {
		return shared.NewDomainError("NOT_RENDERED", "Document must be rendered before issuing")
	}
	doc.Status = DocumentStatusIssued
	now := time.Now()
	doc.IssuedAt = &now
	doc.UpdatedAt = now
	doc.AddDomainEvent(NewDocumentIssuedEvent(doc))
	return nil
}

// Cancel voids a draft or issued document
func (doc *Document) Cancel() error {
	if doc.Status == DocumentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Document is already cancelled")
	}
	doc.Status = DocumentStatusCancelled
	doc.UpdatedAt = time.Now()
	doc.AddDomainEvent(NewDocumentCancelledEvent(doc))
	return nil
}
