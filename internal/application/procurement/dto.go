package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furniflow/backend/internal/domain/procurement"
)

// ComparisonResponse represents a stock comparison in API responses
type ComparisonResponse struct {
	ID            uuid.UUID                `json:"id"`
	Number        string                   `json:"number"`
	SupplierID    *uuid.UUID               `json:"supplier_id,omitempty"`
	FileName      string                   `json:"file_name"`
	Status        string                   `json:"status"`
	Error         string                   `json:"error,omitempty"`
	TotalRows     int                      `json:"total_rows"`
	SkippedRows   int                      `json:"skipped_rows"`
	MatchedRows   int                      `json:"matched_rows"`
	UnmatchedRows int                      `json:"unmatched_rows"`
	Items         []ComparisonItemResponse `json:"items"`
	MatchedAt     *time.Time               `json:"matched_at,omitempty"`
	Version       int                      `json:"version"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// ComparisonItemResponse represents one parsed row and its match outcome
type ComparisonItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	RowIndex        int              `json:"row_index"`
	SKU             string           `json:"sku,omitempty"`
	Name            string           `json:"name"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	MatchedItemID   *uuid.UUID       `json:"matched_item_id,omitempty"`
	MatchStatus     string           `json:"match_status"`
	MatchMethod     string           `json:"match_method,omitempty"`
	MatchConfidence float64          `json:"match_confidence"`
	QuantityDiff    *decimal.Decimal `json:"quantity_diff,omitempty"`
}

// ToComparisonItemResponse converts one row to a response DTO
func ToComparisonItemResponse(item *procurement.ComparisonItem) ComparisonItemResponse {
	return ComparisonItemResponse{
		ID:              item.ID,
		RowIndex:        item.RowIndex,
		SKU:             item.SKU,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		UnitPrice:       item.UnitPrice,
		MatchedItemID:   item.MatchedItemID,
		MatchStatus:     string(item.MatchStatus),
		MatchMethod:     string(item.MatchMethod),
		MatchConfidence: item.MatchConfidence,
		QuantityDiff:    item.QuantityDiff,
	}
}

// ToComparisonResponse converts a domain comparison to a response DTO
func ToComparisonResponse(c *procurement.Comparison) ComparisonResponse {
	items := make([]ComparisonItemResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, ToComparisonItemResponse(&c.Items[i]))
	}
	return ComparisonResponse{
		ID:            c.ID,
		Number:        c.Number,
		SupplierID:    c.SupplierID,
		FileName:      c.FileName,
		Status:        string(c.Status),
		Error:         c.Error,
		TotalRows:     c.TotalRows,
		SkippedRows:   c.SkippedRows,
		MatchedRows:   c.MatchedRows,
		UnmatchedRows: c.UnmatchedRows,
		Items:         items,
		MatchedAt:     c.MatchedAt,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToComparisonResponses converts a slice of comparisons to response DTOs
func ToComparisonResponses(comparisons []*procurement.Comparison) []ComparisonResponse {
	result := make([]ComparisonResponse, 0, len(comparisons))
	for _, c := range comparisons {
		result = append(result, ToComparisonResponse(c))
	}
	return result
}

// RowResultResponse is one row of the reconciliation view, decorated
// with the matched warehouse item
type RowResultResponse struct {
	Row         ComparisonItemResponse `json:"row"`
	MatchedSKU  string                 `json:"matched_sku,omitempty"`
	MatchedName string                 `json:"matched_name,omitempty"`
	OnHand      *decimal.Decimal       `json:"on_hand,omitempty"`
}

// ResultsResponse is the reconciliation outcome. ShortageRows counts
// matched rows where the sheet quantity exceeds the stock on hand.
type ResultsResponse struct {
	ComparisonID  uuid.UUID           `json:"comparison_id"`
	Number        string              `json:"number"`
	Status        string              `json:"status"`
	TotalRows     int                 `json:"total_rows"`
	SkippedRows   int                 `json:"skipped_rows"`
	MatchedRows   int                 `json:"matched_rows"`
	UnmatchedRows int                 `json:"unmatched_rows"`
	ShortageRows  int                 `json:"shortage_rows"`
	Rows          []RowResultResponse `json:"rows"`
}

// CreateComparisonRequest carries the uploaded spreadsheet's metadata
type CreateComparisonRequest struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
}

// ManualMatchRequest assigns a warehouse item to one row by hand
type ManualMatchRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// ComparisonListFilter represents query parameters for listing comparisons
type ComparisonListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
}
