package task

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Comment is a note on a task's timeline
type Comment struct {
	shared.BaseEntity
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Body     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "task_comments"
}

// NewComment creates a task comment
func NewComment(taskID, authorID uuid.UUID, body string) (*Comment, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK", "Task ID is required")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Comment body cannot be empty")
	}

	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		TaskID:     taskID,
		AuthorID:   authorID,
		Body:       body,
	}, nil
}

// ChecklistItem is a single line of a task's checklist
type ChecklistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:varchar(500);not null"`
	Position  int       `gorm:"not null"`
	Done      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChecklistItem) TableName() string {
	return "task_checklist_items"
}

// NewChecklistItem creates a checklist line at the given position
func NewChecklistItem(taskID uuid.UUID, text string, position int) (*ChecklistItem, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK", "Task ID is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_TEXT", "Checklist text cannot be empty")
	}
	if position < 0 {
		return nil, shared.NewDomainError("INVALID_POSITION", "Position cannot be negative")
	}

	now := time.Now()
	return &ChecklistItem{
		ID:        uuid.New(),
		TaskID:    taskID,
		Text:      text,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Toggle flips the done flag
func (c *ChecklistItem) Toggle() {
	c.Done = !c.Done
	c.UpdatedAt = time.Now()
}

// Attachment is a file linked to a task
type Attachment struct {
	shared.BaseEntity
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	FileName    string    `gorm:"type:varchar(300);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null"`
	ObjectKey   string    `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "task_attachments"
}

// NewAttachment records an uploaded file against a task
func NewAttachment(taskID, uploadedBy uuid.UUID, fileName, contentType, objectKey string, sizeBytes int64) (*Attachment, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK", "Task ID is required")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File name cannot be empty")
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Object key cannot be empty")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "File size must be positive")
	}

	return &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		TaskID:      taskID,
		UploadedBy:  uploadedBy,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		ObjectKey:   objectKey,
	}, nil
}
