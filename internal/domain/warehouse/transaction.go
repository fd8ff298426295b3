package warehouse

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock movement
type TransactionType string

const (
	TransactionTypeIn         TransactionType = "in"
	TransactionTypeOut        TransactionType = "out"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// Transaction is the immutable ledger entry recorded for every stock
// movement. Entries are never updated or deleted after creation.
type Transaction struct {
	shared.BaseEntity
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          TransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(500)"`
	Reference     string          `gorm:"type:varchar(200)"` // Free-form document reference (delivery note, deal number)
	DealID        *uuid.UUID      `gorm:"type:uuid;index"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
	IdempotencyKey string         `gorm:"type:varchar(128);uniqueIndex:idx_tx_idem,where:idempotency_key <> ''"`
	OccurredAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "warehouse_transactions"
}

// NewTransaction creates a ledger entry for a completed stock movement
func NewTransaction(itemID uuid.UUID, txType TransactionType, quantity, balanceAfter decimal.Decimal, reason string) (*Transaction, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID is required")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid transaction type: "+string(txType))
	}
	if quantity.LessThanOrEqual(decimal.Zero) && txType != TransactionTypeAdjustment {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity must be positive")
	}

	return &Transaction{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		Type:         txType,
		Quantity:     quantity,
		BalanceAfter: balanceAfter,
		Reason:       strings.TrimSpace(reason),
		OccurredAt:   time.Now(),
	}, nil
}

// WithReference attaches a document reference to the entry
func (t *Transaction) WithReference(reference string) *Transaction {
	t.Reference = strings.TrimSpace(reference)
	return t
}

// WithDeal links the entry to a deal
func (t *Transaction) WithDeal(dealID uuid.UUID) *Transaction {
	t.DealID = &dealID
	return t
}

// WithActor records who performed the movement
func (t *Transaction) WithActor(actorID uuid.UUID) *Transaction {
	t.ActorID = &actorID
	return t
}

// WithIdempotencyKey marks the entry with a client-supplied dedup key
func (t *Transaction) WithIdempotencyKey(key string) *Transaction {
	t.IdempotencyKey = strings.TrimSpace(key)
	return t
}
