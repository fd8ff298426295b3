package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/deal"
	"github.com/furniflow/backend/internal/domain/pipeline"
	"github.com/furniflow/backend/internal/domain/shared"
)

// PipelineService handles sales pipeline configuration
type PipelineService struct {
	pipelineRepo pipeline.Repository
	dealRepo     deal.Repository
}

// NewPipelineService creates a new PipelineService
func NewPipelineService(pipelineRepo pipeline.Repository, dealRepo deal.Repository) *PipelineService {
	return &PipelineService{
		pipelineRepo: pipelineRepo,
		dealRepo:     dealRepo,
	}
}

// GetByID retrieves a pipeline with its stages
func (s *PipelineService) GetByID(ctx context.Context, id uuid.UUID) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// GetDefault retrieves the default pipeline
func (s *PipelineService) GetDefault(ctx context.Context) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// List retrieves pipelines
func (s *PipelineService) List(ctx context.Context, filter shared.Filter) ([]PipelineResponse, int64, error) {
	pipelines, err := s.pipelineRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.pipelineRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToPipelineResponses(pipelines), total, nil
}

// Create builds a pipeline with its initial stages. The first pipeline
// in the system becomes the default automatically.
func (s *PipelineService) Create(ctx context.Context, req CreatePipelineRequest) (*PipelineResponse, error) {
	p, err := pipeline.NewPipeline(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	for _, stageName := range req.Stages {
		if _, err := p.AddStage(stageName, ""); err != nil {
			return nil, err
		}
	}

	if _, err := s.pipelineRepo.FindDefault(ctx); errors.Is(err, shared.ErrNotFound) {
		p.MarkDefault()
	}

	if err := s.pipelineRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// Update renames a pipeline
func (s *PipelineService) Update(ctx context.Context, id uuid.UUID, req UpdatePipelineRequest) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// AddStage appends a stage to the end of a pipeline
func (s *PipelineService) AddStage(ctx context.Context, id uuid.UUID, req AddStageRequest) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := p.AddStage(req.Name, req.Color); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// RenameStage changes a stage's name or color
func (s *PipelineService) RenameStage(ctx context.Context, id, stageID uuid.UUID, req RenameStageRequest) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RenameStage(stageID, req.Name, req.Color); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// RemoveStage deletes a stage that holds no deals
func (s *PipelineService) RemoveStage(ctx context.Context, id, stageID uuid.UUID) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.dealRepo.CountByStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, shared.NewDomainError("STAGE_IN_USE", "Stage still holds deals and cannot be removed")
	}

	if err := p.RemoveStage(stageID); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// ReorderStages applies a new stage order
func (s *PipelineService) ReorderStages(ctx context.Context, id uuid.UUID, req ReorderStagesRequest) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.ReorderStages(req.StageIDs); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// SetDefault makes a pipeline the default, clearing the previous one
func (s *PipelineService) SetDefault(ctx context.Context, id uuid.UUID) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsArchived {
		return nil, shared.NewDomainError("PIPELINE_ARCHIVED", "An archived pipeline cannot be the default")
	}

	current, err := s.pipelineRepo.FindDefault(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if current != nil && current.ID != p.ID {
		current.ClearDefault()
		if err := s.pipelineRepo.Save(ctx, current); err != nil {
			return nil, err
		}
	}

	p.MarkDefault()
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// Archive hides a pipeline from new deal creation
func (s *PipelineService) Archive(ctx context.Context, id uuid.UUID) (*PipelineResponse, error) {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Archive(); err != nil {
		return nil, err
	}
	if err := s.pipelineRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPipelineResponse(p)
	return &response, nil
}

// Delete removes a pipeline with no deals
func (s *PipelineService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.pipelineRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDefault {
		return shared.NewDomainError("PIPELINE_DEFAULT", "The default pipeline cannot be deleted")
	}

	filter := shared.DefaultFilter()
	filter.Filters["pipeline_id"] = p.ID
	count, err := s.dealRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("PIPELINE_IN_USE", "Pipeline still holds deals and cannot be deleted")
	}

	return s.pipelineRepo.Delete(ctx, id)
}
