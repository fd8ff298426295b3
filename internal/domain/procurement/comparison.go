package procurement

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComparisonStatus represents the processing state of a stock comparison
type ComparisonStatus string

const (
	ComparisonStatusPending   ComparisonStatus = "pending"
	ComparisonStatusMatching  ComparisonStatus = "matching"
	ComparisonStatusCompleted ComparisonStatus = "completed"
	ComparisonStatusFailed    ComparisonStatus = "failed"
)

// IsValid checks if the status is valid
func (s ComparisonStatus) IsValid() bool {
	switch s {
	case ComparisonStatusPending, ComparisonStatusMatching, ComparisonStatusCompleted, ComparisonStatusFailed:
		return true
	}
	return false
}

// Comparison reconciles one uploaded supplier spreadsheet against the
// warehouse catalogue. Each parsed row becomes a ComparisonItem; matching
// pairs rows with warehouse items and records the quantity difference.
type Comparison struct {
	shared.BaseAggregateRoot
	Number        string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid;index"`
	FileName      string           `gorm:"type:varchar(300);not null"`
	ObjectKey     string           `gorm:"type:varchar(500);not null"`
	Status        ComparisonStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Error         string           `gorm:"type:varchar(1000)"` // Failure detail when status is failed
	TotalRows     int              `gorm:"not null;default:0"`
	SkippedRows   int              `gorm:"not null;default:0"` // Rows that failed to parse
	MatchedRows   int              `gorm:"not null;default:0"` // Confident and fuzzy matches together
	UnmatchedRows int              `gorm:"not null;default:0"`
	Items         []ComparisonItem `gorm:"foreignKey:ComparisonID;constraint:OnDelete:CASCADE"`
	MatchedAt     *time.Time
}

// TableName returns the table name for GORM
func (Comparison) TableName() string {
	return "procurement_comparisons"
}

// NewComparison creates a comparison from parsed spreadsheet rows
func NewComparison(number string, supplierID *uuid.UUID, fileName, objectKey string, rows []ComparisonItem, skipped int) (*Comparison, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Comparison number cannot be empty")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File name cannot be empty")
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("EMPTY_SHEET", "Spreadsheet contains no usable rows")
	}

	c := &Comparison{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierID:        supplierID,
		FileName:          fileName,
		ObjectKey:         objectKey,
		Status:            ComparisonStatusPending,
		TotalRows:         len(rows),
		SkippedRows:       skipped,
	}
	for i := range rows {
		rows[i].ID = uuid.New()
		rows[i].ComparisonID = c.ID
		rows[i].RowIndex = i
		rows[i].MatchStatus = MatchStatusPending
		rows[i].CreatedAt = c.CreatedAt
		if rows[i].Quantity.LessThanOrEqual(decimal.Zero) {
			rows[i].Quantity = decimal.NewFromInt(1)
		}
		if rows[i].Unit == "" {
			rows[i].Unit = "pcs"
		}
	}
	c.Items = rows
	return c, nil
}

// BeginMatching freezes the comparison for processing. A completed or
// failed comparison may be re-run; prior results are cleared.
func (c *Comparison) BeginMatching() error {
	if c.Status == ComparisonStatusMatching {
		return shared.NewDomainError("INVALID_STATE", "Comparison is already being matched")
	}
	for i := range c.Items {
		c.Items[i].clearMatch()
	}
	c.Status = ComparisonStatusMatching
	c.Error = ""
	c.MatchedRows = 0
	c.UnmatchedRows = 0
	c.MatchedAt = nil
	c.UpdatedAt = time.Now()
	return nil
}

// RecordMatch pairs one row with a warehouse item. The quantity diff is
// the row quantity minus the item's on-hand quantity.
func (c *Comparison) RecordMatch(rowID, matchedItemID uuid.UUID, status MatchStatus, method MatchMethod, confidence float64, onHand decimal.Decimal) error {
	if c.Status != ComparisonStatusMatching {
		return shared.NewDomainError("INVALID_STATE", "Comparison is not being matched")
	}
	if status != MatchStatusMatched && status != MatchStatusFuzzy {
		return shared.NewDomainError("INVALID_MATCH", "A recorded match must be matched or fuzzy")
	}
	item := c.findItem(rowID)
	if item == nil {
		return shared.NewDomainError("ROW_NOT_FOUND", "Comparison has no such row")
	}
	item.applyMatch(matchedItemID, status, method, confidence, item.Quantity.Sub(onHand))
	c.UpdatedAt = time.Now()
	return nil
}

// CompleteMatching marks the comparison done. Rows nothing claimed are
// flagged unmatched and the totals are recomputed.
func (c *Comparison) CompleteMatching() error {
	if c.Status != ComparisonStatusMatching {
		return shared.NewDomainError("INVALID_STATE", "Comparison is not being matched")
	}
	c.Status = ComparisonStatusCompleted
	now := time.Now()
	c.MatchedAt = &now
	c.UpdatedAt = now
	for i := range c.Items {
		if c.Items[i].MatchStatus == MatchStatusPending {
			c.Items[i].MatchStatus = MatchStatusUnmatched
		}
	}
	c.recountRows()
	return nil
}

// FailMatching records a processing failure so matching can be retried
func (c *Comparison) FailMatching(reason string) error {
	if c.Status != ComparisonStatusMatching {
		return shared.NewDomainError("INVALID_STATE", "Comparison is not being matched")
	}
	c.Status = ComparisonStatusFailed
	c.Error = reason
	c.UpdatedAt = time.Now()
	return nil
}

// SetManualMatch lets the buyer override a row's pairing after matching
// has completed
func (c *Comparison) SetManualMatch(rowID, matchedItemID uuid.UUID, onHand decimal.Decimal) error {
	if c.Status != ComparisonStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Comparison has not been matched yet")
	}
	item := c.findItem(rowID)
	if item == nil {
		return shared.NewDomainError("ROW_NOT_FOUND", "Comparison has no such row")
	}
	item.applyMatch(matchedItemID, MatchStatusMatched, MatchMethodManual, 1.0, item.Quantity.Sub(onHand))
	c.recountRows()
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Comparison) findItem(rowID uuid.UUID) *ComparisonItem {
	for i := range c.Items {
		if c.Items[i].ID == rowID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Comparison) recountRows() {
	matched, unmatched := 0, 0
	for i := range c.Items {
		switch c.Items[i].MatchStatus {
		case MatchStatusMatched, MatchStatusFuzzy:
			matched++
		case MatchStatusUnmatched:
			unmatched++
		}
	}
	c.MatchedRows = matched
	c.UnmatchedRows = unmatched
}
