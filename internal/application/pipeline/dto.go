package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/pipeline"
)

// StageResponse represents a pipeline stage in API responses
type StageResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color,omitempty"`
	Position int       `json:"position"`
}

// PipelineResponse represents a pipeline in API responses
type PipelineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsDefault   bool            `json:"is_default"`
	IsArchived  bool            `json:"is_archived"`
	Stages      []StageResponse `json:"stages"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPipelineResponse maps a pipeline aggregate to its response form
func ToPipelineResponse(p *pipeline.Pipeline) PipelineResponse {
	stages := make([]StageResponse, 0, len(p.Stages))
	for _, s := range p.Stages {
		stages = append(stages, StageResponse{
			ID:       s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Position: s.Position,
		})
	}
	return PipelineResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsDefault:   p.IsDefault,
		IsArchived:  p.IsArchived,
		Stages:      stages,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPipelineResponses maps a slice of pipelines
func ToPipelineResponses(pipelines []*pipeline.Pipeline) []PipelineResponse {
	result := make([]PipelineResponse, 0, len(pipelines))
	for _, p := range pipelines {
		result = append(result, ToPipelineResponse(p))
	}
	return result
}

// CreatePipelineRequest represents a request to create a pipeline
type CreatePipelineRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Stages      []string `json:"stages" binding:"required,min=1"`
}

// UpdatePipelineRequest represents a request to rename a pipeline
type UpdatePipelineRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddStageRequest represents a request to append a stage
type AddStageRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// RenameStageRequest represents a request to rename a stage
type RenameStageRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// ReorderStagesRequest represents a request to reorder stages. IDs must
// be a permutation of the pipeline's current stage IDs.
type ReorderStagesRequest struct {
	StageIDs []uuid.UUID `json:"stage_ids" binding:"required,min=1"`
}
