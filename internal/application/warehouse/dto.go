package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furniflow/backend/internal/domain/warehouse"
)

// ItemResponse represents a warehouse item in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	BelowMinimum      bool            `json:"below_minimum"`
	Location          string          `json:"location"`
	Description       string          `json:"description"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(item *warehouse.Item) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		Category:          item.Category,
		Unit:              item.Unit,
		Quantity:          item.Quantity,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.AvailableQuantity(),
		UnitPrice:         item.UnitPrice,
		TotalValue:        item.TotalValue(),
		MinQuantity:       item.MinQuantity,
		BelowMinimum:      item.IsBelowMinimum(),
		Location:          item.Location,
		Description:       item.Description,
		Version:           item.Version,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain items to response DTOs
func ToItemResponses(items []*warehouse.Item) []ItemResponse {
	result := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, ToItemResponse(item))
	}
	return result
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Reason         string          `json:"reason"`
	Reference      string          `json:"reference"`
	DealID         *uuid.UUID      `json:"deal_id,omitempty"`
	ActorID        *uuid.UUID      `json:"actor_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(tx *warehouse.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID,
		ItemID:         tx.ItemID,
		Type:           string(tx.Type),
		Quantity:       tx.Quantity,
		BalanceAfter:   tx.BalanceAfter,
		Reason:         tx.Reason,
		Reference:      tx.Reference,
		DealID:         tx.DealID,
		ActorID:        tx.ActorID,
		IdempotencyKey: tx.IdempotencyKey,
		OccurredAt:     tx.OccurredAt,
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs
func ToTransactionResponses(txs []*warehouse.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, ToTransactionResponse(tx))
	}
	return result
}

// ReservationResponse represents a stock reservation in API responses
type ReservationResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	DealID    *uuid.UUID      `json:"deal_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Status    string          `json:"status"`
	Purpose   string          `json:"purpose"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToReservationResponse converts a domain reservation to a response DTO
func ToReservationResponse(r *warehouse.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		ItemID:    r.ItemID,
		DealID:    r.DealID,
		Quantity:  r.Quantity,
		Status:    string(r.Status),
		Purpose:   r.Purpose,
		ExpiresAt: r.ExpiresAt,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToReservationResponses converts a slice of reservations to response DTOs
func ToReservationResponses(reservations []*warehouse.Reservation) []ReservationResponse {
	result := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		result = append(result, ToReservationResponse(r))
	}
	return result
}

// CreateItemRequest represents a request to register a warehouse item
type CreateItemRequest struct {
	SKU         string          `json:"sku" binding:"required,max=100"`
	Name        string          `json:"name" binding:"required,max=300"`
	Category    string          `json:"category" binding:"max=100"`
	Unit        string          `json:"unit" binding:"max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Location    string          `json:"location" binding:"max=100"`
	Description string          `json:"description" binding:"max=1000"`
}

// UpdateItemRequest represents a request to edit item master data
type UpdateItemRequest struct {
	Name        string           `json:"name" binding:"required,max=300"`
	Category    string           `json:"category" binding:"max=100"`
	Location    string           `json:"location" binding:"max=100"`
	Description string           `json:"description" binding:"max=1000"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
}

// StockMovementRequest represents a receive or issue operation.
// IdempotencyKey makes retried submissions safe to replay.
type StockMovementRequest struct {
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Reason         string          `json:"reason" binding:"max=500"`
	Reference      string          `json:"reference" binding:"max=200"`
	DealID         *uuid.UUID      `json:"deal_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key" binding:"max=128"`
}

// AdjustStockRequest represents an inventory count correction
type AdjustStockRequest struct {
	ActualQuantity decimal.Decimal `json:"actual_quantity" binding:"required"`
	Reason         string          `json:"reason" binding:"required,max=500"`
	IdempotencyKey string          `json:"idempotency_key" binding:"max=128"`
}

// CreateReservationRequest represents a request to hold stock
type CreateReservationRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Purpose   string          `json:"purpose" binding:"max=500"`
	DealID    *uuid.UUID      `json:"deal_id,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// ItemListFilter represents query parameters for listing items
type ItemListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Search       string `form:"search"`
	Category     string `form:"category"`
	BelowMinimum bool   `form:"below_minimum"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir"`
}

// TransactionListFilter represents query parameters for the ledger
type TransactionListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Type     string     `form:"type"`
	ItemID   *uuid.UUID `form:"item_id"`
	DealID   *uuid.UUID `form:"deal_id"`
}

// ReservationListFilter represents query parameters for reservations
type ReservationListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Status   string     `form:"status"`
	ItemID   *uuid.UUID `form:"item_id"`
	DealID   *uuid.UUID `form:"deal_id"`
}
