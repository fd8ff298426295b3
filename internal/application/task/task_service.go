package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/task"
)

// TaskService handles the task lifecycle including role-pool claiming
type TaskService struct {
	taskRepo       task.Repository
	commentRepo    task.CommentRepository
	checklistRepo  task.ChecklistRepository
	attachmentRepo task.AttachmentRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo task.Repository,
	commentRepo task.CommentRepository,
	checklistRepo task.ChecklistRepository,
	attachmentRepo task.AttachmentRepository,
	userRepo identity.UserRepository,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		commentRepo:    commentRepo,
		checklistRepo:  checklistRepo,
		attachmentRepo: attachmentRepo,
		userRepo:       userRepo,
	}
}

// SetEventPublisher wires the publisher for domain events
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TaskService) publishDomainEvents(ctx context.Context, t *task.Task) {
	if s.eventPublisher == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	t.ClearDomainEvents()
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, filter TaskListFilter) ([]TaskResponse, int64, error) {
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
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.AssigneeID != nil {
		domainFilter.Filters["assignee_id"] = *filter.AssigneeID
	}
	if filter.PoolRole != "" {
		domainFilter.Filters["pool_role"] = filter.PoolRole
	}
	if filter.DealID != nil {
		domainFilter.Filters["deal_id"] = *filter.DealID
	}
	if filter.Overdue != nil && *filter.Overdue {
		domainFilter.Filters["overdue"] = true
	}

	tasks, err := s.taskRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTaskResponses(tasks), total, nil
}

// ListPool retrieves unclaimed tasks pooled for a role, most urgent first
func (s *TaskService) ListPool(ctx context.Context, roleCode string, filter shared.Filter) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindPool(ctx, roleCode, filter)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// Create opens a task, either assigned to a user or pooled for a role
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if (req.AssigneeID == nil) == (req.PoolRole == "") {
		return nil, shared.NewDomainError("INVALID_TARGET", "Exactly one of assignee_id and pool_role must be set")
	}

	var t *task.Task
	var err error
	if req.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
		t, err = task.NewTask(req.Title, req.Description, *req.AssigneeID)
	} else {
		t, err = task.NewPoolTask(req.Title, req.Description, req.PoolRole)
	}
	if err != nil {
		return nil, err
	}

	if req.Priority != "" {
		if err := t.SetPriority(task.TaskPriority(req.Priority)); err != nil {
			return nil, err
		}
	}
	t.SetDueDate(req.DueDate)
	if req.DealID != nil {
		t.LinkDeal(*req.DealID)
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Update edits a task's descriptive fields
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Update(req.Title, req.Description); err != nil {
		return nil, err
	}
	if req.Priority != "" {
		if err := t.SetPriority(task.TaskPriority(req.Priority)); err != nil {
			return nil, err
		}
	}
	t.SetDueDate(req.DueDate)

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// Claim takes a pooled task for the calling user. The optimistic lock
// turns a race between two claimers into a conflict for the loser.
func (s *TaskService) Claim(ctx context.Context, id, userID uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if t.PoolRole != "" && user.RoleCode != t.PoolRole && user.RoleCode != identity.AdminRoleCode {
		return nil, shared.NewDomainError("WRONG_ROLE", "Task is pooled for a different role")
	}

	if err := t.Claim(userID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, t); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, shared.NewDomainError("ALREADY_CLAIMED", "Task was claimed by someone else")
		}
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Reassign hands a task to another user
func (s *TaskService) Reassign(ctx context.Context, id uuid.UUID, req ReassignTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.AssigneeID); err != nil {
		return nil, err
	}
	if err := t.Reassign(req.AssigneeID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// ReturnToPool puts a claimed task back into its role pool
func (s *TaskService) ReturnToPool(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.ReturnToPool(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// Transition moves a task through its status machine
func (s *TaskService) Transition(ctx context.Context, id uuid.UUID, req TransitionTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Transition(task.TaskStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.taskRepo.Delete(ctx, id)
}

// ListComments retrieves a task's comments, oldest first
func (s *TaskService) ListComments(ctx context.Context, taskID uuid.UUID, filter shared.Filter) ([]CommentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByTask(ctx, taskID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		result = append(result, CommentResponse{
			ID:        c.ID,
			TaskID:    c.TaskID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return result, nil
}

// PostComment appends a comment to a task
func (s *TaskService) PostComment(ctx context.Context, taskID, authorID uuid.UUID, req PostCommentRequest) (*CommentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	c, err := task.NewComment(taskID, authorID, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}, nil
}

// DeleteComment removes a comment from a task
func (s *TaskService) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return s.commentRepo.Delete(ctx, id)
}

// ListChecklist retrieves a task's checklist in order
func (s *TaskService) ListChecklist(ctx context.Context, taskID uuid.UUID) ([]ChecklistItemResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	items, err := s.checklistRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	result := make([]ChecklistItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toChecklistResponse(item))
	}
	return result, nil
}

// AddChecklistItem appends an item to a task's checklist
func (s *TaskService) AddChecklistItem(ctx context.Context, taskID uuid.UUID, req AddChecklistItemRequest) (*ChecklistItemResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	existing, err := s.checklistRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	item, err := task.NewChecklistItem(taskID, req.Text, len(existing))
	if err != nil {
		return nil, err
	}
	if err := s.checklistRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := toChecklistResponse(item)
	return &response, nil
}

// ToggleChecklistItem flips an item's done state
func (s *TaskService) ToggleChecklistItem(ctx context.Context, itemID uuid.UUID) (*ChecklistItemResponse, error) {
	item, err := s.checklistRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Toggle()
	if err := s.checklistRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := toChecklistResponse(item)
	return &response, nil
}

// DeleteChecklistItem removes a checklist item
func (s *TaskService) DeleteChecklistItem(ctx context.Context, itemID uuid.UUID) error {
	return s.checklistRepo.Delete(ctx, itemID)
}

// ReorderChecklist rewrites item positions to match the given id order. The
// request must list every item of the task exactly once.
func (s *TaskService) ReorderChecklist(ctx context.Context, taskID uuid.UUID, req ReorderChecklistRequest) ([]ChecklistItemResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	items, err := s.checklistRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(req.ItemIDs) != len(items) {
		return nil, shared.NewDomainError("INVALID_ORDER", "Item list must contain every checklist item exactly once")
	}
	byID := make(map[uuid.UUID]*task.ChecklistItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	result := make([]ChecklistItemResponse, 0, len(items))
	for pos, id := range req.ItemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_ORDER", "Unknown checklist item "+id.String())
		}
		delete(byID, id)
		item.Position = pos
		item.UpdatedAt = time.Now()
		if err := s.checklistRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		result = append(result, toChecklistResponse(item))
	}
	return result, nil
}

// ListAttachments retrieves a task's attachments
func (s *TaskService) ListAttachments(ctx context.Context, taskID uuid.UUID) ([]TaskAttachmentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	result := make([]TaskAttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, toTaskAttachmentResponse(a))
	}
	return result, nil
}

// RegisterAttachment records an uploaded file against a task
func (s *TaskService) RegisterAttachment(ctx context.Context, taskID, uploadedBy uuid.UUID, req RegisterTaskAttachmentRequest) (*TaskAttachmentResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	a, err := task.NewAttachment(taskID, uploadedBy, req.FileName, req.ContentType, req.ObjectKey, req.SizeBytes)
	if err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	response := toTaskAttachmentResponse(a)
	return &response, nil
}

func toChecklistResponse(item *task.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:       item.ID,
		TaskID:   item.TaskID,
		Text:     item.Text,
		Position: item.Position,
		Done:     item.Done,
	}
}

func toTaskAttachmentResponse(a *task.Attachment) TaskAttachmentResponse {
	return TaskAttachmentResponse{
		ID:          a.ID,
		TaskID:      a.TaskID,
		UploadedBy:  a.UploadedBy,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		ObjectKey:   a.ObjectKey,
		CreatedAt:   a.CreatedAt,
	}
}
