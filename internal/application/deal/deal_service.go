package deal

import (
	"context"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/deal"
	"github.com/furniflow/backend/internal/domain/pipeline"
	"github.com/furniflow/backend/internal/domain/shared"
)

// Number prefixes for allocated document series
const (
	dealNumberPrefix     = "D"
	quoteNumberPrefix    = "Q"
	invoiceNumberPrefix  = "INV"
	contractNumberPrefix = "CTR"
)

// NumberAllocator hands out sequential numbers per named series
type NumberAllocator interface {
	NextNumber(ctx context.Context, prefix string) (string, error)
}

// DealService handles the sales deal lifecycle
type DealService struct {
	dealRepo       deal.Repository
	pipelineRepo   pipeline.Repository
	messageRepo    deal.MessageRepository
	attachmentRepo deal.AttachmentRepository
	allocator      NumberAllocator
	eventPublisher shared.EventPublisher
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo deal.Repository,
	pipelineRepo pipeline.Repository,
	messageRepo deal.MessageRepository,
	attachmentRepo deal.AttachmentRepository,
	allocator NumberAllocator,
) *DealService {
	return &DealService{
		dealRepo:       dealRepo,
		pipelineRepo:   pipelineRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		allocator:      allocator,
	}
}

// SetEventPublisher wires the publisher for domain events
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DealService) publishDomainEvents(ctx context.Context, d *deal.Deal) {
	if s.eventPublisher == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	d.ClearDomainEvents()
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDealResponse(d)
	return &response, nil
}

// GetByNumber retrieves a deal by its business number
func (s *DealService) GetByNumber(ctx context.Context, number string) (*DealResponse, error) {
	d, err := s.dealRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToDealResponse(d)
	return &response, nil
}

// List retrieves deals with filtering and pagination
func (s *DealService) List(ctx context.Context, filter DealListFilter) ([]DealResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PipelineID != nil {
		domainFilter.Filters["pipeline_id"] = *filter.PipelineID
	}
	if filter.StageID != nil {
		domainFilter.Filters["stage_id"] = *filter.StageID
	}
	if filter.ManagerID != nil {
		domainFilter.Filters["manager_id"] = *filter.ManagerID
	}

	deals, err := s.dealRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dealRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDealResponses(deals), total, nil
}

// Board assembles the kanban view of a pipeline, one column per stage
// with deals ordered by time in stage.
func (s *DealService) Board(ctx context.Context, pipelineID uuid.UUID) ([]BoardColumnResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumnResponse, 0, len(p.Stages))
	for _, stage := range p.Stages {
		deals, err := s.dealRepo.FindByStage(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		columns = append(columns, BoardColumnResponse{
			StageID:   stage.ID,
			StageName: stage.Name,
			Color:     stage.Color,
			Position:  stage.Position,
			Deals:     ToDealResponses(deals),
		})
	}
	return columns, nil
}

// Create opens a deal in the first stage of the chosen (or default)
// pipeline and allocates its number.
func (s *DealService) Create(ctx context.Context, req CreateDealRequest) (*DealResponse, error) {
	var p *pipeline.Pipeline
	var err error
	if req.PipelineID != nil {
		p, err = s.pipelineRepo.FindByID(ctx, *req.PipelineID)
	} else {
		p, err = s.pipelineRepo.FindDefault(ctx)
	}
	if err != nil {
		return nil, err
	}
	if p.IsArchived {
		return nil, shared.NewDomainError("PIPELINE_ARCHIVED", "Cannot open deals in an archived pipeline")
	}

	firstStage, err := p.FirstStage()
	if err != nil {
		return nil, err
	}

	number, err := s.allocator.NextNumber(ctx, dealNumberPrefix)
	if err != nil {
		return nil, err
	}

	d, err := deal.NewDeal(number, req.Title, req.CustomerName, p.ID, firstStage.ID)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.Title, req.CustomerName, req.CustomerPhone, req.CustomerEmail, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if !req.Amount.IsZero() || req.Currency != "" {
		if err := d.SetAmount(req.Amount, req.Currency); err != nil {
			return nil, err
		}
	}
	if req.ManagerID != nil {
		if err := d.AssignManager(*req.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// Update edits a deal's customer and commercial details
func (s *DealService) Update(ctx context.Context, id uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Update(req.Title, req.CustomerName, req.CustomerPhone, req.CustomerEmail, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if req.Amount != nil {
		currency := req.Currency
		if currency == "" {
			currency = d.Currency
		}
		if err := d.SetAmount(*req.Amount, currency); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// MoveStage moves a deal to another stage of its pipeline
func (s *DealService) MoveStage(ctx context.Context, id uuid.UUID, req MoveStageRequest) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.pipelineRepo.FindByID(ctx, d.PipelineID)
	if err != nil {
		return nil, err
	}
	if !p.HasStage(req.StageID) {
		return nil, shared.NewDomainError("UNKNOWN_STAGE", "Stage does not belong to the deal's pipeline")
	}

	if err := d.MoveToStage(req.StageID); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// AssignManager sets the responsible manager
func (s *DealService) AssignManager(ctx context.Context, id uuid.UUID, req AssignManagerRequest) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.AssignManager(req.ManagerID); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDealResponse(d)
	return &response, nil
}

// Win closes a deal as won
func (s *DealService) Win(ctx context.Context, id uuid.UUID) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Win(); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// Lose closes a deal as lost with a mandatory reason
func (s *DealService) Lose(ctx context.Context, id uuid.UUID, req LoseDealRequest) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Lose(req.Reason); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// Reopen returns a closed deal to open status
func (s *DealService) Reopen(ctx context.Context, id uuid.UUID) (*DealResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Reopen(); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, d)

	response := ToDealResponse(d)
	return &response, nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dealRepo.Delete(ctx, id)
}

// ListMessages retrieves a deal's timeline messages
func (s *DealService) ListMessages(ctx context.Context, dealID uuid.UUID, filter shared.Filter) ([]MessageResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.FindByDeal(ctx, dealID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, ToMessageResponse(m))
	}
	return result, nil
}

// PostMessage appends a message to a deal's timeline
func (s *DealService) PostMessage(ctx context.Context, dealID, authorID uuid.UUID, req PostMessageRequest) (*MessageResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}
	m, err := deal.NewMessage(dealID, authorID, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	response := ToMessageResponse(m)
	return &response, nil
}

// DeleteMessage removes a message from a deal's timeline
func (s *DealService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.messageRepo.Delete(ctx, id)
}

// ListAttachments retrieves a deal's attachments
func (s *DealService) ListAttachments(ctx context.Context, dealID uuid.UUID) ([]AttachmentResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	result := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, ToAttachmentResponse(a))
	}
	return result, nil
}

// RegisterAttachment records an uploaded file against a deal. The file
// itself is uploaded to object storage via a presigned URL beforehand.
func (s *DealService) RegisterAttachment(ctx context.Context, dealID, uploadedBy uuid.UUID, req RegisterAttachmentRequest) (*AttachmentResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}
	a, err := deal.NewAttachment(dealID, uploadedBy, req.FileName, req.ContentType, req.ObjectKey, req.SizeBytes)
	if err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	response := ToAttachmentResponse(a)
	return &response, nil
}

// DeleteAttachment removes an attachment record
func (s *DealService) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return s.attachmentRepo.Delete(ctx, id)
}
