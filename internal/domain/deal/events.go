package deal

import (
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the deal domain
const (
	EventTypeDealCreated       = "deal.created"
	EventTypeDealStageChanged  = "deal.stage_changed"
	EventTypeDealWon           = "deal.won"
	EventTypeDealLost          = "deal.lost"
	EventTypeDealReopened      = "deal.reopened"
	EventTypeDocumentGenerated = "deal.document_generated"
	EventTypeDocumentIssued    = "deal.document_issued"
	EventTypeDocumentCancelled = "deal.document_cancelled"
)

// DealCreatedEvent is raised when a new deal enters the pipeline
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	Title        string `json:"title"`
	CustomerName string `json:"customer_name"`
	PipelineID   string `json:"pipeline_id"`
	StageID      string `json:"stage_id"`
}

// NewDealCreatedEvent creates a deal created event
func NewDealCreatedEvent(d *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, "Deal", d.ID),
		Number:          d.Number,
		Title:           d.Title,
		CustomerName:    d.CustomerName,
		PipelineID:      d.PipelineID.String(),
		StageID:         d.StageID.String(),
	}
}

// DealStageChangedEvent is raised when a deal moves on the board
type DealStageChangedEvent struct {
	shared.BaseDomainEvent
	Number      string `json:"number"`
	FromStageID string `json:"from_stage_id"`
	ToStageID   string `json:"to_stage_id"`
}

// NewDealStageChangedEvent creates a stage changed event
func NewDealStageChangedEvent(d *Deal, from, to uuid.UUID) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStageChanged, "Deal", d.ID),
		Number:          d.Number,
		FromStageID:     from.String(),
		ToStageID:       to.String(),
	}
}

// DealWonEvent is raised when a deal closes as won
type DealWonEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

// NewDealWonEvent creates a deal won event
func NewDealWonEvent(d *Deal) *DealWonEvent {
	return &DealWonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealWon, "Deal", d.ID),
		Number:          d.Number,
		Amount:          d.Amount,
	}
}

// DealLostEvent is raised when a deal closes as lost
type DealLostEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewDealLostEvent creates a deal lost event
func NewDealLostEvent(d *Deal, reason string) *DealLostEvent {
	return &DealLostEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealLost, "Deal", d.ID),
		Number:          d.Number,
		Reason:          reason,
	}
}

// DealReopenedEvent is raised when a closed deal returns to open
type DealReopenedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewDealReopenedEvent creates a deal reopened event
func NewDealReopenedEvent(d *Deal) *DealReopenedEvent {
	return &DealReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealReopened, "Deal", d.ID),
		Number:          d.Number,
	}
}

// DocumentGeneratedEvent is raised when a draft document is created
type DocumentGeneratedEvent struct {
	shared.BaseDomainEvent
	DealID string `json:"deal_id"`
	Kind   string `json:"kind"`
	Number string `json:"number"`
}

// NewDocumentGeneratedEvent creates a document generated event
func NewDocumentGeneratedEvent(doc *Document) *DocumentGeneratedEvent {
	return &DocumentGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentGenerated, "DealDocument", doc.ID),
		DealID:          doc.DealID.String(),
		Kind:            string(doc.Kind),
		Number:          doc.Number,
	}
}

// DocumentIssuedEvent is raised when a document is issued
type DocumentIssuedEvent struct {
	shared.BaseDomainEvent
	DealID string `json:"deal_id"`
	Kind   string `json:"kind"`
	Number string `json:"number"`
}

// NewDocumentIssuedEvent creates a document issued event
func NewDocumentIssuedEvent(doc *Document) *DocumentIssuedEvent {
	return &DocumentIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentIssued, "DealDocument", doc.ID),
		DealID:          doc.DealID.String(),
		Kind:            string(doc.Kind),
		Number:          doc.Number,
	}
}

// DocumentCancelledEvent is raised when a document is voided
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DealID string `json:"deal_id"`
	Kind   string `json:"kind"`
	Number string `json:"number"`
}

// NewDocumentCancelledEvent creates a document cancelled event
func NewDocumentCancelledEvent(doc *Document) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCancelled, "DealDocument", doc.ID),
		DealID:          doc.DealID.String(),
		Kind:            string(doc.Kind),
		Number:          doc.Number,
	}
}
