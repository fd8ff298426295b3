package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furniflow/backend/internal/domain/deal"
)

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	Title          string          `json:"title"`
	PipelineID     uuid.UUID       `json:"pipeline_id"`
	StageID        uuid.UUID       `json:"stage_id"`
	Status         string          `json:"status"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	Address        string          `json:"address,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ManagerID      *uuid.UUID      `json:"manager_id,omitempty"`
	LostReason     string          `json:"lost_reason,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	StageEnteredAt time.Time       `json:"stage_entered_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToDealResponse maps a deal aggregate to its response form
func ToDealResponse(d *deal.Deal) DealResponse {
	return DealResponse{
		ID:             d.ID,
		Number:         d.Number,
		Title:          d.Title,
		PipelineID:     d.PipelineID,
		StageID:        d.StageID,
		Status:         string(d.Status),
		CustomerName:   d.CustomerName,
		CustomerPhone:  d.CustomerPhone,
		CustomerEmail:  d.CustomerEmail,
		Address:        d.Address,
		Amount:         d.Amount,
		Currency:       d.Currency,
		ManagerID:      d.ManagerID,
		LostReason:     d.LostReason,
		Notes:          d.Notes,
		ClosedAt:       d.ClosedAt,
		StageEnteredAt: d.StageEnteredAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.GetVersion(),
	}
}

// ToDealResponses maps a slice of deals
func ToDealResponses(deals []*deal.Deal) []DealResponse {
	result := make([]DealResponse, 0, len(deals))
	for _, d := range deals {
		result = append(result, ToDealResponse(d))
	}
	return result
}

// CreateDealRequest represents a request to open a deal
type CreateDealRequest struct {
	Title         string          `json:"title" binding:"required"`
	PipelineID    *uuid.UUID      `json:"pipeline_id"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email"`
	Address       string          `json:"address"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	ManagerID     *uuid.UUID      `json:"manager_id"`
	Notes         string          `json:"notes"`
}

// UpdateDealRequest represents a request to edit deal details
type UpdateDealRequest struct {
	Title         string           `json:"title" binding:"required"`
	CustomerName  string           `json:"customer_name" binding:"required"`
	CustomerPhone string           `json:"customer_phone"`
	CustomerEmail string           `json:"customer_email" binding:"omitempty,email"`
	Address       string           `json:"address"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	Notes         string           `json:"notes"`
}

// MoveStageRequest represents a request to move a deal on the board
type MoveStageRequest struct {
	StageID uuid.UUID `json:"stage_id" binding:"required"`
}

// AssignManagerRequest represents a request to assign a deal manager
type AssignManagerRequest struct {
	ManagerID uuid.UUID `json:"manager_id" binding:"required"`
}

// LoseDealRequest represents a request to close a deal as lost
type LoseDealRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DealListFilter represents filter options for the deal list
type DealListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=open won lost"`
	PipelineID *uuid.UUID `form:"pipeline_id"`
	StageID    *uuid.UUID `form:"stage_id"`
	ManagerID  *uuid.UUID `form:"manager_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BoardColumnResponse is one stage column of the kanban board
type BoardColumnResponse struct {
	StageID   uuid.UUID      `json:"stage_id"`
	StageName string         `json:"stage_name"`
	Color     string         `json:"color,omitempty"`
	Position  int            `json:"position"`
	Deals     []DealResponse `json:"deals"`
}

// MessageResponse represents a timeline message
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	DealID    uuid.UUID `json:"deal_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMessageResponse maps a message to its response form
func ToMessageResponse(m *deal.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		DealID:    m.DealID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

// PostMessageRequest represents a request to post a timeline message
type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// AttachmentResponse represents a deal attachment
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DealID      uuid.UUID `json:"deal_id"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	ObjectKey   string    `json:"object_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAttachmentResponse maps an attachment to its response form
func ToAttachmentResponse(a *deal.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		DealID:      a.DealID,
		UploadedBy:  a.UploadedBy,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		ObjectKey:   a.ObjectKey,
		CreatedAt:   a.CreatedAt,
	}
}

// RegisterAttachmentRequest records an uploaded file against a deal
type RegisterAttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
	ObjectKey   string `json:"object_key" binding:"required"`
}

// DocumentResponse represents a generated deal document
type DocumentResponse struct {
	ID          uuid.UUID       `json:"id"`
	DealID      uuid.UUID       `json:"deal_id"`
	Kind        string          `json:"kind"`
	Number      string          `json:"number"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ObjectKey   string          `json:"object_key,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
	IssuedAt    *time.Time      `json:"issued_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToDocumentResponse maps a document to its response form
func ToDocumentResponse(doc *deal.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		DealID:    doc.DealID,
		Kind:      string(doc.Kind),
		Number:    doc.Number,
		Status:    string(doc.Status),
		Amount:    doc.Amount,
		Currency:  doc.Currency,
		ObjectKey: doc.ObjectKey,
		IssuedAt:  doc.IssuedAt,
		CreatedAt: doc.CreatedAt,
	}
}

// ToDocumentResponses maps a slice of documents
func ToDocumentResponses(docs []*deal.Document) []DocumentResponse {
	result := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		result = append(result, ToDocumentResponse(doc))
	}
	return result
}

// GenerateDocumentRequest represents a request to generate a document
type GenerateDocumentRequest struct {
	Kind string `json:"kind" binding:"required,oneof=quote invoice contract"`
}
