package handler

import (
	"github.com/gin-gonic/gin"

	dealapp "github.com/furniflow/backend/internal/application/deal"
	"github.com/furniflow/backend/internal/interfaces/http/middleware"
)

// DealHandler handles deal pipeline endpoints
type DealHandler struct {
	BaseHandler
	deals     *dealapp.DealService
	documents *dealapp.DocumentService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(deals *dealapp.DealService, documents *dealapp.DocumentService) *DealHandler {
	return &DealHandler{deals: deals, documents: documents}
}

// List returns deals with filtering and pagination
func (h *DealHandler) List(c *gin.Context) {
	var filter dealapp.DealListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	deals, total, err := h.deals.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// Board returns deals grouped by stage for a pipeline
func (h *DealHandler) Board(c *gin.Context) {
	pipelineID, ok := parseIDParam(c, "pipelineId")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}

	columns, err := h.deals.Board(c.Request.Context(), pipelineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, columns)
}

// GetByID returns one deal
func (h *DealHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	d, err := h.deals.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// GetByNumber returns one deal by its business number
func (h *DealHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Deal number is required")
		return
	}

	d, err := h.deals.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Create opens a new deal
func (h *DealHandler) Create(c *gin.Context) {
	var req dealapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	d, err := h.deals.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// Update edits deal details
func (h *DealHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	var req dealapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	d, err := h.deals.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// MoveStage moves a deal to another stage
func (h *DealHandler) MoveStage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	var req dealapp.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	d, err := h.deals.MoveStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// AssignManager sets the responsible manager
func (h *DealHandler) AssignManager(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	var req dealapp.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	d, err := h.deals.AssignManager(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Win closes a deal as won
func (h *DealHandler) Win(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	d, err := h.deals.Win(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Lose closes a deal as lost
func (h *DealHandler) Lose(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	var req dealapp.LoseDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	d, err := h.deals.Lose(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Reopen returns a closed deal to its pipeline
func (h *DealHandler) Reopen(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	d, err := h.deals.Reopen(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Delete removes a deal
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	if err := h.deals.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMessages returns a deal's discussion thread
func (h *DealHandler) ListMessages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	messages, err := h.deals.ListMessages(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messages)
}

// PostMessage appends a message to a deal's thread
func (h *DealHandler) PostMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req dealapp.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	message, err := h.deals.PostMessage(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, message)
}

// DeleteMessage removes a timeline message
func (h *DealHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := parseIDParam(c, "messageId")
	if !ok {
		h.BadRequest(c, "Invalid message ID format")
		return
	}

	if err := h.deals.DeleteMessage(c.Request.Context(), messageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAttachments returns files registered against a deal
func (h *DealHandler) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	attachments, err := h.deals.ListAttachments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attachments)
}

// RegisterAttachment records an uploaded file against a deal
func (h *DealHandler) RegisterAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req dealapp.RegisterAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	attachment, err := h.deals.RegisterAttachment(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, attachment)
}

// DeleteAttachment removes a deal attachment record
func (h *DealHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.deals.DeleteAttachment(c.Request.Context(), attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDocuments returns a deal's generated documents
func (h *DealHandler) ListDocuments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	docs, err := h.documents.ListByDeal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// GenerateDocument renders a new document for a deal
func (h *DealHandler) GenerateDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	var req dealapp.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.documents.Generate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// GetDocument returns one document
func (h *DealHandler) GetDocument(c *gin.Context) {
	docID, ok := parseIDParam(c, "documentId")
	if !ok {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// IssueDocument marks a document as issued
func (h *DealHandler) IssueDocument(c *gin.Context) {
	docID, ok := parseIDParam(c, "documentId")
	if !ok {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.documents.Issue(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// CancelDocument voids a document
func (h *DealHandler) CancelDocument(c *gin.Context) {
	docID, ok := parseIDParam(c, "documentId")
	if !ok {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.documents.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// DocumentDownloadURL returns a short-lived link to the rendered file
func (h *DealHandler) DocumentDownloadURL(c *gin.Context) {
	docID, ok := parseIDParam(c, "documentId")
	if !ok {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.documents.DownloadURL(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
