package warehouse

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

// WarehouseService handles item master data, stock movements and the
// movement ledger. Every movement writes exactly one ledger entry;
// retried requests carrying the same idempotency key replay the
// original entry instead of moving stock twice.
type WarehouseService struct {
	itemRepo       warehouse.ItemRepository
	txRepo         warehouse.TransactionRepository
	eventPublisher shared.EventPublisher
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(itemRepo warehouse.ItemRepository, txRepo warehouse.TransactionRepository) *WarehouseService {
	return &WarehouseService{
		itemRepo: itemRepo,
		txRepo:   txRepo,
	}
}

// SetEventPublisher wires the publisher for domain events
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *WarehouseService) publishDomainEvents(ctx context.Context, item *warehouse.Item) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// GetByID retrieves an item by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetBySKU retrieves an item by its SKU
func (s *WarehouseService) GetBySKU(ctx context.Context, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	if filter.BelowMinimum {
		items, err := s.itemRepo.FindBelowMinimum(ctx)
		if err != nil {
			return nil, 0, err
		}
		return ToItemResponses(items), int64(len(items)), nil
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Create registers a new warehouse item with zero stock
func (s *WarehouseService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	exists, err := s.itemRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "An item with this SKU already exists")
	}

	item, err := warehouse.NewItem(req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Name, req.Category, req.Location, req.Description); err != nil {
		return nil, err
	}
	if !req.UnitPrice.IsZero() {
		if err := item.SetPricing(req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if !req.MinQuantity.IsZero() {
		if err := item.SetMinQuantity(req.MinQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Update edits item master data
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Category, req.Location, req.Description); err != nil {
		return nil, err
	}
	if req.UnitPrice != nil {
		if err := item.SetPricing(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.MinQuantity != nil {
		if err := item.SetMinQuantity(*req.MinQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes an item. Items with stock on hand cannot be deleted.
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.Quantity.IsZero() {
		return shared.NewDomainError("ITEM_HAS_STOCK", "Cannot delete an item with stock on hand")
	}
	return s.itemRepo.Delete(ctx, id)
}

// Receive adds stock to an item and records an inbound ledger entry
func (s *WarehouseService) Receive(ctx context.Context, itemID uuid.UUID, actorID *uuid.UUID, req StockMovementRequest) (*TransactionResponse, error) {
	if replayed, err := s.findReplay(ctx, req.IdempotencyKey); replayed != nil || err != nil {
		return replayed, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Receive(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return s.recordMovement(ctx, item, warehouse.TransactionTypeIn, actorID, req)
}

// Issue removes available stock from an item and records an outbound
// ledger entry. Reserved stock cannot be issued this way.
func (s *WarehouseService) Issue(ctx context.Context, itemID uuid.UUID, actorID *uuid.UUID, req StockMovementRequest) (*TransactionResponse, error) {
	if replayed, err := s.findReplay(ctx, req.IdempotencyKey); replayed != nil || err != nil {
		return replayed, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Issue(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return s.recordMovement(ctx, item, warehouse.TransactionTypeOut, actorID, req)
}

// Adjust corrects the on-hand quantity after a physical count
func (s *WarehouseService) Adjust(ctx context.Context, itemID uuid.UUID, actorID *uuid.UUID, req AdjustStockRequest) (*TransactionResponse, error) {
	if replayed, err := s.findReplay(ctx, req.IdempotencyKey); replayed != nil || err != nil {
		return replayed, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	previous := item.Quantity
	if err := item.Adjust(req.ActualQuantity, req.Reason); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	delta := item.Quantity.Sub(previous)
	tx, err := warehouse.NewTransaction(item.ID, warehouse.TransactionTypeAdjustment, delta, item.Quantity, req.Reason)
	if err != nil {
		return nil, err
	}
	tx.WithIdempotencyKey(req.IdempotencyKey)
	if actorID != nil {
		tx.WithActor(*actorID)
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// ListTransactions retrieves ledger entries, newest first
func (s *WarehouseService) ListTransactions(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "occurred_at"
	domainFilter.OrderDir = "desc"
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.ItemID != nil {
		domainFilter.Filters["item_id"] = *filter.ItemID
	}
	if filter.DealID != nil {
		domainFilter.Filters["deal_id"] = *filter.DealID
	}

	txs, err := s.txRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

// ListItemTransactions retrieves the ledger for a single item
func (s *WarehouseService) ListItemTransactions(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	txs, err := s.txRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// ListBelowMinimum retrieves items whose stock fell under the threshold
func (s *WarehouseService) ListBelowMinimum(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// findReplay returns the previously recorded movement for a key, if any
func (s *WarehouseService) findReplay(ctx context.Context, key string) (*TransactionResponse, error) {
	if key == "" {
		return nil, nil
	}
	tx, err := s.txRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	response := ToTransactionResponse(tx)
	return &response, nil
}

func (s *WarehouseService) recordMovement(ctx context.Context, item *warehouse.Item, txType warehouse.TransactionType, actorID *uuid.UUID, req StockMovementRequest) (*TransactionResponse, error) {
	tx, err := warehouse.NewTransaction(item.ID, txType, req.Quantity, item.Quantity, req.Reason)
	if err != nil {
		return nil, err
	}
	tx.WithReference(req.Reference).WithIdempotencyKey(req.IdempotencyKey)
	if req.DealID != nil {
		tx.WithDeal(*req.DealID)
	}
	if actorID != nil {
		tx.WithActor(*actorID)
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToTransactionResponse(tx)
	return &response, nil
}
