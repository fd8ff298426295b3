package handler

import (
	"github.com/gin-gonic/gin"

	pipelineapp "github.com/furniflow/backend/internal/application/pipeline"
)

// PipelineHandler handles sales pipeline configuration endpoints
type PipelineHandler struct {
	BaseHandler
	pipelines *pipelineapp.PipelineService
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(pipelines *pipelineapp.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelines: pipelines}
}

// List returns pipelines with pagination
func (h *PipelineHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	pipelines, total, err := h.pipelines.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, pipelines, total, filter.Page, filter.PageSize)
}

// GetByID returns one pipeline with its stages
func (h *PipelineHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}

	p, err := h.pipelines.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// GetDefault returns the default pipeline
func (h *PipelineHandler) GetDefault(c *gin.Context) {
	p, err := h.pipelines.GetDefault(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Create builds a new pipeline
func (h *PipelineHandler) Create(c *gin.Context) {
	var req pipelineapp.CreatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.pipelines.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Update edits pipeline details
func (h *PipelineHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}
	var req pipelineapp.UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.pipelines.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// AddStage appends a stage to a pipeline
func (h *PipelineHandler) AddStage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}
	var req pipelineapp.AddStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.pipelines.AddStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// RenameStage renames a stage within a pipeline
func (h *PipelineHandler) RenameStage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}
	stageID, ok := parseIDParam(c, "stageId")
	if !ok {
		h.BadRequest(c, "Invalid stage ID format")
		return
	}
	var req pipelineapp.RenameStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.pipelines.RenameStage(c.Request.Context(), id, stageID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// RemoveStage deletes an empty stage from a pipeline
func (h *PipelineHandler) RemoveStage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}
	stageID, ok := parseIDParam(c, "stageId")
	if !ok {
		h.BadRequest(c, "Invalid stage ID format")
		return
	}

	p, err := h.pipelines.RemoveStage(c.Request.Context(), id, stageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ReorderStages applies a new stage ordering
func (h *PipelineHandler) ReorderStages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}
	var req pipelineapp.ReorderStagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.pipelines.ReorderStages(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// SetDefault marks a pipeline as the default
func (h *PipelineHandler) SetDefault(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}

	p, err := h.pipelines.SetDefault(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Archive retires a pipeline from new deals
func (h *PipelineHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}

	p, err := h.pipelines.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete removes a pipeline without deals
func (h *PipelineHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid pipeline ID format")
		return
	}

	if err := h.pipelines.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
