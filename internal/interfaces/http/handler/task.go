package handler

import (
	"github.com/gin-gonic/gin"

	taskapp "github.com/furniflow/backend/internal/application/task"
	"github.com/furniflow/backend/internal/interfaces/http/middleware"
)

// TaskHandler handles task management endpoints
type TaskHandler struct {
	BaseHandler
	tasks *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns tasks with filtering and pagination
func (h *TaskHandler) List(c *gin.Context) {
	var filter taskapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// ListPool returns unassigned tasks open to a role pool
func (h *TaskHandler) ListPool(c *gin.Context) {
	roleCode := c.Query("role")
	if roleCode == "" {
		roleCode = middleware.GetUserRole(c)
	}
	if roleCode == "" {
		h.BadRequest(c, "Role is required")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tasks, err := h.tasks.ListPool(c.Request.Context(), roleCode, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// GetByID returns one task
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	t, err := h.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create opens a new task, either assigned or pooled
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Update edits task details
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	var req taskapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Claim takes a pooled task for the calling user
func (h *TaskHandler) Claim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	t, err := h.tasks.Claim(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Reassign hands a task to another user
func (h *TaskHandler) Reassign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	var req taskapp.ReassignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	t, err := h.tasks.Reassign(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// ReturnToPool puts an assigned task back into its role pool
func (h *TaskHandler) ReturnToPool(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	t, err := h.tasks.ReturnToPool(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Transition moves a task through its status lifecycle
func (h *TaskHandler) Transition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	var req taskapp.TransitionTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	t, err := h.tasks.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListComments returns a task's comment thread
func (h *TaskHandler) ListComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	comments, err := h.tasks.ListComments(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comments)
}

// PostComment appends a comment to a task
func (h *TaskHandler) PostComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req taskapp.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	comment, err := h.tasks.PostComment(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// DeleteComment removes a task comment
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		h.BadRequest(c, "Invalid comment ID format")
		return
	}

	if err := h.tasks.DeleteComment(c.Request.Context(), commentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListChecklist returns a task's checklist
func (h *TaskHandler) ListChecklist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	items, err := h.tasks.ListChecklist(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddChecklistItem appends a checklist entry
func (h *TaskHandler) AddChecklistItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	var req taskapp.AddChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.tasks.AddChecklistItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// ToggleChecklistItem flips a checklist entry's done state
func (h *TaskHandler) ToggleChecklistItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		h.BadRequest(c, "Invalid checklist item ID format")
		return
	}

	item, err := h.tasks.ToggleChecklistItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ReorderChecklist rewrites the checklist order from the given item ids
func (h *TaskHandler) ReorderChecklist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	var req taskapp.ReorderChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	items, err := h.tasks.ReorderChecklist(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// DeleteChecklistItem removes a checklist entry
func (h *TaskHandler) DeleteChecklistItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		h.BadRequest(c, "Invalid checklist item ID format")
		return
	}

	if err := h.tasks.DeleteChecklistItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAttachments returns files registered against a task
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	attachments, err := h.tasks.ListAttachments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attachments)
}

// RegisterAttachment records an uploaded file against a task
func (h *TaskHandler) RegisterAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req taskapp.RegisterTaskAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	attachment, err := h.tasks.RegisterAttachment(c.Request.Context(), id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, attachment)
}
