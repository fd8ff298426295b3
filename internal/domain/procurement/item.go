package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus describes how a spreadsheet row relates to the warehouse
// catalogue after matching
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusFuzzy     MatchStatus = "fuzzy"
	MatchStatusUnmatched MatchStatus = "unmatched"
)

// IsValid checks if the match status is valid
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusPending, MatchStatusMatched, MatchStatusFuzzy, MatchStatusUnmatched:
		return true
	}
	return false
}

// MatchMethod records how a row was paired with a warehouse item
type MatchMethod string

const (
	MatchMethodAI        MatchMethod = "ai"        // Paired by the language model
	MatchMethodExactSKU  MatchMethod = "exact_sku" // SKU strings equal after normalization
	MatchMethodSubstring MatchMethod = "substring" // Normalized name containment
	MatchMethodManual    MatchMethod = "manual"    // Picked by the buyer
)

// IsValid checks if the match method is valid
func (m MatchMethod) IsValid() bool {
	switch m {
	case MatchMethodAI, MatchMethodExactSKU, MatchMethodSubstring, MatchMethodManual:
		return true
	}
	return false
}

// ComparisonItem is one parsed spreadsheet row. After matching it carries
// the paired warehouse item and the quantity difference between the row
// and the stock on hand.
type ComparisonItem struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ComparisonID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	RowIndex        int              `gorm:"not null"`
	SKU             string           `gorm:"type:varchar(100)"`
	Name            string           `gorm:"type:varchar(500);not null"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:1"`
	Unit            string           `gorm:"type:varchar(20);not null;default:'pcs'"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	MatchedItemID   *uuid.UUID       `gorm:"type:uuid;index"`
	MatchStatus     MatchStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	MatchMethod     MatchMethod      `gorm:"type:varchar(20)"`
	MatchConfidence float64          `gorm:"not null;default:0"` // 0..1
	QuantityDiff    *decimal.Decimal `gorm:"type:decimal(18,4)"` // Row quantity minus stock on hand
	CreatedAt       time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ComparisonItem) TableName() string {
	return "procurement_comparison_items"
}

func (i *ComparisonItem) applyMatch(matchedItemID uuid.UUID, status MatchStatus, method MatchMethod, confidence float64, diff decimal.Decimal) {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	i.MatchedItemID = &matchedItemID
	i.MatchStatus = status
	i.MatchMethod = method
	i.MatchConfidence = confidence
	i.QuantityDiff = &diff
}

func (i *ComparisonItem) clearMatch() {
	i.MatchedItemID = nil
	i.MatchStatus = MatchStatusPending
	i.MatchMethod = ""
	i.MatchConfidence = 0
	i.QuantityDiff = nil
}
