package warehouse

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

// MockItemRepository is a mock implementation of ItemRepository for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*warehouse.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockItemRepository) FindCatalog(ctx context.Context) ([]*warehouse.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockItemRepository) FindBelowMinimum(ctx context.Context) ([]*warehouse.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *warehouse.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Save(ctx context.Context, item *warehouse.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*warehouse.Transaction, error) {
	args := m.Called(ctx, itemID, filter)
	return args.Get(0).([]*warehouse.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*warehouse.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*warehouse.Transaction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *warehouse.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func createTestItem(t *testing.T, quantity int64) *warehouse.Item {
	t.Helper()
	item, err := warehouse.NewItem("PNL-18", "Laminated panel 18mm", "pcs")
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, item.Receive(decimal.NewFromInt(quantity)))
	}
	item.ClearDomainEvents()
	return item
}

func TestWarehouseService_Receive_RecordsLedgerEntry(t *testing.T) {
	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := NewWarehouseService(itemRepo, txRepo)

	item := createTestItem(t, 10)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Save", mock.Anything, item).Return(nil)
	txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *warehouse.Transaction) bool {
		return tx.Type == warehouse.TransactionTypeIn &&
			tx.Quantity.Equal(decimal.NewFromInt(5)) &&
			tx.BalanceAfter.Equal(decimal.NewFromInt(15))
	})).Return(nil)

	resp, err := service.Receive(context.Background(), item.ID, nil, StockMovementRequest{
		Quantity:  decimal.NewFromInt(5),
		Reference: "delivery note 77",
	})

	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "in", resp.Type)
	itemRepo.AssertExpectations(t)
	txRepo.AssertExpectations(t)
}

func TestWarehouseService_Receive_ReplaysIdempotencyKey(t *testing.T) {
	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := NewWarehouseService(itemRepo, txRepo)

	itemID := uuid.New()
	existing, err := warehouse.NewTransaction(itemID, warehouse.TransactionTypeIn, decimal.NewFromInt(5), decimal.NewFromInt(15), "")
	require.NoError(t, err)
	existing.WithIdempotencyKey("req-123")

	txRepo.On("FindByIdempotencyKey", mock.Anything, "req-123").Return(existing, nil)

	resp, err := service.Receive(context.Background(), itemID, nil, StockMovementRequest{
		Quantity:       decimal.NewFromInt(5),
		IdempotencyKey: "req-123",
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	itemRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWarehouseService_Issue_InsufficientStock(t *testing.T) {
	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := NewWarehouseService(itemRepo, txRepo)

	item := createTestItem(t, 3)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

	_, err := service.Issue(context.Background(), item.ID, nil, StockMovementRequest{
		Quantity: decimal.NewFromInt(10),
	})

	require.Error(t, err)
	itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWarehouseService_Issue_ReservedStockIsProtected(t *testing.T) {
	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := NewWarehouseService(itemRepo, txRepo)

	item := createTestItem(t, 10)
	require.NoError(t, item.Reserve(decimal.NewFromInt(8)))
	item.ClearDomainEvents()
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

	_, err := service.Issue(context.Background(), item.ID, nil, StockMovementRequest{
		Quantity: decimal.NewFromInt(5),
	})

	require.Error(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)), "failed issue must not change stock")
}

func TestWarehouseService_Adjust_RecordsDelta(t *testing.T) {
	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := NewWarehouseService(itemRepo, txRepo)

	item := createTestItem(t, 10)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Save", mock.Anything, item).Return(nil)
	txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *warehouse.Transaction) bool {
		return tx.Type == warehouse.TransactionTypeAdjustment &&
			tx.Quantity.Equal(decimal.NewFromInt(-3)) &&
			tx.BalanceAfter.Equal(decimal.NewFromInt(7))
	})).Return(nil)

	resp, err := service.Adjust(context.Background(), item.ID, nil, AdjustStockRequest{
		ActualQuantity: decimal.NewFromInt(7),
		Reason:         "yearly count",
	})

	require.NoError(t, err)
	assert.Equal(t, "adjustment", resp.Type)
	txRepo.AssertExpectations(t)
}

// MockReservationRepository is a mock implementation of ReservationRepository for testing
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*warehouse.Reservation, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*warehouse.Reservation, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).([]*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActive(ctx context.Context, filter shared.Filter) ([]*warehouse.Reservation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Reservation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindExpired(ctx context.Context) ([]*warehouse.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*warehouse.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *warehouse.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) Save(ctx context.Context, reservation *warehouse.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) CreateWithItem(ctx context.Context, reservation *warehouse.Reservation, item *warehouse.Item) error {
	args := m.Called(ctx, reservation, item)
	return args.Error(0)
}

func (m *MockReservationRepository) SaveWithItem(ctx context.Context, reservation *warehouse.Reservation, item *warehouse.Item, entry *warehouse.Transaction) error {
	args := m.Called(ctx, reservation, item, entry)
	return args.Error(0)
}

func TestReservationService_Create_HoldsStock(t *testing.T) {
	itemRepo := new(MockItemRepository)
	reservationRepo := new(MockReservationRepository)
	service := NewReservationService(itemRepo, reservationRepo)

	item := createTestItem(t, 10)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	reservationRepo.On("CreateWithItem", mock.Anything, mock.Anything, item).Return(nil)

	resp, err := service.Create(context.Background(), CreateReservationRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(4),
		Purpose:  "kitchen project",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, item.AvailableQuantity().Equal(decimal.NewFromInt(6)))
	reservationRepo.AssertExpectations(t)
}

func TestReservationService_Create_OverAvailable(t *testing.T) {
	itemRepo := new(MockItemRepository)
	reservationRepo := new(MockReservationRepository)
	service := NewReservationService(itemRepo, reservationRepo)

	item := createTestItem(t, 3)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

	_, err := service.Create(context.Background(), CreateReservationRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(5),
	})

	require.Error(t, err)
	reservationRepo.AssertNotCalled(t, "CreateWithItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationService_Release_ConsumesStockAndWritesLedger(t *testing.T) {
	itemRepo := new(MockItemRepository)
	reservationRepo := new(MockReservationRepository)
	service := NewReservationService(itemRepo, reservationRepo)

	item := createTestItem(t, 10)
	require.NoError(t, item.Reserve(decimal.NewFromInt(4)))
	item.ClearDomainEvents()

	r, err := warehouse.NewReservation(item.ID, decimal.NewFromInt(4), "kitchen project")
	require.NoError(t, err)
	r.ClearDomainEvents()

	reservationRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	reservationRepo.On("SaveWithItem", mock.Anything, r, item, mock.MatchedBy(func(tx *warehouse.Transaction) bool {
		return tx.Type == warehouse.TransactionTypeOut &&
			tx.Quantity.Equal(decimal.NewFromInt(4)) &&
			tx.BalanceAfter.Equal(decimal.NewFromInt(6))
	})).Return(nil)

	resp, err := service.Release(context.Background(), r.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, "released", resp.Status)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, item.ReservedQuantity.IsZero())
	reservationRepo.AssertExpectations(t)
}

func TestReservationService_Cancel_ReturnsStock(t *testing.T) {
	itemRepo := new(MockItemRepository)
	reservationRepo := new(MockReservationRepository)
	service := NewReservationService(itemRepo, reservationRepo)

	item := createTestItem(t, 10)
	require.NoError(t, item.Reserve(decimal.NewFromInt(4)))
	item.ClearDomainEvents()

	r, err := warehouse.NewReservation(item.ID, decimal.NewFromInt(4), "")
	require.NoError(t, err)
	r.ClearDomainEvents()

	reservationRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	reservationRepo.On("SaveWithItem", mock.Anything, r, item, (*warehouse.Transaction)(nil)).Return(nil)

	resp, err := service.Cancel(context.Background(), r.ID)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)), "cancel keeps the stock on hand")
	assert.True(t, item.ReservedQuantity.IsZero())
	reservationRepo.AssertExpectations(t)
}
