package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Pipeline is an ordered set of stages deals move through. A company keeps
// several pipelines (retail, B2B, dealer network), one of them the default
// for new deals.
type Pipeline struct {
	shared.BaseAggregateRoot
	Name        string  `gorm:"type:varchar(200);not null"`
	Description string  `gorm:"type:varchar(1000)"`
	IsDefault   bool    `gorm:"not null;default:false"`
	IsArchived  bool    `gorm:"not null;default:false;index"`
	Stages      []Stage `gorm:"foreignKey:PipelineID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Pipeline) TableName() string {
	return "sales_pipelines"
}

// Stage is a single column of a pipeline board. Position is dense and
// zero-based within the pipeline.
type Stage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PipelineID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stage_pos,priority:1"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Color      string    `gorm:"type:varchar(20)"` // Hex color for the board column
	Position   int       `gorm:"not null;uniqueIndex:idx_stage_pos,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Stage) TableName() string {
	return "pipeline_stages"
}

// NewPipeline creates a pipeline with no stages
func NewPipeline(name, description string) (*Pipeline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pipeline name cannot be empty")
	}

	return &Pipeline{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update changes pipeline details
func (p *Pipeline) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Pipeline name cannot be empty")
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// AddStage appends a stage at the end of the board
func (p *Pipeline) AddStage(name, color string) (*Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Stage name cannot be empty")
	}
	for _, s := range p.Stages {
		if strings.EqualFold(s.Name, name) {
			return nil, shared.NewDomainError("DUPLICATE_STAGE", "Stage with this name already exists")
		}
	}

	now := time.Now()
	stage := Stage{
		ID:         uuid.New(),
		PipelineID: p.ID,
		Name:       name,
		Color:      color,
		Position:   len(p.Stages),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.Stages = append(p.Stages, stage)
	p.UpdatedAt = now
	return &p.Stages[len(p.Stages)-1], nil
}

// RenameStage updates a stage's name and color
func (p *Pipeline) RenameStage(stageID uuid.UUID, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Stage name cannot be empty")
	}
	for idx := range p.Stages {
		if p.Stages[idx].ID == stageID {
			p.Stages[idx].Name = name
			p.Stages[idx].Color = color
			p.Stages[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveStage deletes a stage and closes the position gap. The caller must
// verify no deals sit in the stage before removing it.
func (p *Pipeline) RemoveStage(stageID uuid.UUID) error {
	idx := -1
	for i := range p.Stages {
		if p.Stages[i].ID == stageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}
	if len(p.Stages) == 1 {
		return shared.NewDomainError("LAST_STAGE", "Pipeline must keep at least one stage")
	}

	p.Stages = append(p.Stages[:idx], p.Stages[idx+1:]...)
	p.renumber()
	p.UpdatedAt = time.Now()
	return nil
}

// ReorderStages applies a complete new ordering. The id list must be a
// permutation of the current stages.
func (p *Pipeline) ReorderStages(orderedIDs []uuid.UUID) error {
	if len(orderedIDs) != len(p.Stages) {
		return shared.NewDomainError("INVALID_ORDER", "Stage order must list every stage exactly once")
	}
	byID := make(map[uuid.UUID]*Stage, len(p.Stages))
	for i := range p.Stages {
		byID[p.Stages[i].ID] = &p.Stages[i]
	}

	reordered := make([]Stage, 0, len(orderedIDs))
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		stage, ok := byID[id]
		if !ok || seen[id] {
			return shared.NewDomainError("INVALID_ORDER", "Stage order must list every stage exactly once")
		}
		seen[id] = true
		reordered = append(reordered, *stage)
	}

	p.Stages = reordered
	p.renumber()
	p.UpdatedAt = time.Now()
	return nil
}

// HasStage reports whether the stage belongs to this pipeline
func (p *Pipeline) HasStage(stageID uuid.UUID) bool {
	for i := range p.Stages {
		if p.Stages[i].ID == stageID {
			return true
		}
	}
	return false
}

// FirstStage returns the stage at position zero
func (p *Pipeline) FirstStage() (*Stage, error) {
	if len(p.Stages) == 0 {
		return nil, shared.NewDomainError("NO_STAGES", "Pipeline has no stages")
	}
	sorted := make([]Stage, len(p.Stages))
	copy(sorted, p.Stages)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Position < sorted[b].Position })
	return &sorted[0], nil
}

// MarkDefault flags this pipeline as the target for new deals. The caller
// clears the flag on the previous default in the same transaction.
func (p *Pipeline) MarkDefault() {
	p.IsDefault = true
	p.UpdatedAt = time.Now()
}

// ClearDefault removes the default flag
func (p *Pipeline) ClearDefault() {
	p.IsDefault = false
	p.UpdatedAt = time.Now()
}

// Archive hides the pipeline from boards. Archived pipelines keep their
// deals readable but accept no new ones.
func (p *Pipeline) Archive() error {
	if p.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot archive the default pipeline")
	}
	p.IsArchived = true
	p.UpdatedAt = time.Now()
	return nil
}

// Unarchive restores an archived pipeline
func (p *Pipeline) Unarchive() {
	p.IsArchived = false
	p.UpdatedAt = time.Now()
}

func (p *Pipeline) renumber() {
	for i := range p.Stages {
		p.Stages[i].Position = i
	}
}
