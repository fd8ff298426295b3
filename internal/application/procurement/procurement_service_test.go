package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/procurement"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

// MockComparisonRepository is a mock implementation of procurement.Repository for testing
type MockComparisonRepository struct {
	mock.Mock
}

func (m *MockComparisonRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Comparison, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Comparison), args.Error(1)
}

func (m *MockComparisonRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*procurement.Comparison, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*procurement.Comparison), args.Error(1)
}

func (m *MockComparisonRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockComparisonRepository) Create(ctx context.Context, c *procurement.Comparison) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComparisonRepository) Save(ctx context.Context, c *procurement.Comparison) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComparisonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCatalogRepository is a mock implementation of warehouse.ItemRepository for testing
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Item), args.Error(1)
}

func (m *MockCatalogRepository) FindBySKU(ctx context.Context, sku string) (*warehouse.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Item), args.Error(1)
}

func (m *MockCatalogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockCatalogRepository) FindCatalog(ctx context.Context) ([]*warehouse.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockCatalogRepository) FindBelowMinimum(ctx context.Context) ([]*warehouse.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*warehouse.Item), args.Error(1)
}

func (m *MockCatalogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) Create(ctx context.Context, item *warehouse.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogRepository) Save(ctx context.Context, item *warehouse.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newPendingComparison(t *testing.T) *procurement.Comparison {
	t.Helper()
	rows := []procurement.ComparisonItem{
		{SKU: "HNG-35", Name: "Clip-on hinge 35mm", Quantity: decimal.NewFromInt(200), Unit: "pcs"},
		{Name: "Granite countertop", Quantity: decimal.NewFromInt(3), Unit: "m2"},
	}
	c, err := procurement.NewComparison("PC-2026-00042", nil, "stock.csv", "procurement/key", rows, 0)
	require.NoError(t, err)
	return c
}

func newServiceUnderTest(repo *MockComparisonRepository, itemRepo *MockCatalogRepository) *ProcurementService {
	logger := zap.NewNop()
	return NewProcurementService(repo, itemRepo, nil, nil, NewMatcher(nil, logger), nil, logger)
}

func TestProcurementService_RunMatching(t *testing.T) {
	t.Run("pairs rows against the warehouse catalogue", func(t *testing.T) {
		repo := new(MockComparisonRepository)
		itemRepo := new(MockCatalogRepository)
		service := newServiceUnderTest(repo, itemRepo)

		c := newPendingComparison(t)
		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil).Twice()
		itemRepo.On("FindCatalog", mock.Anything).Return(buildCatalog(t), nil).Once()

		response, err := service.RunMatching(context.Background(), c.ID)

		require.NoError(t, err)
		assert.Equal(t, "completed", response.Status)
		assert.Equal(t, 1, response.MatchedRows)
		assert.Equal(t, 1, response.UnmatchedRows)
		require.NotNil(t, response.Items[0].MatchedItemID)
		assert.Equal(t, "matched", response.Items[0].MatchStatus)
		require.NotNil(t, response.Items[0].QuantityDiff)
		assert.Equal(t, "50", response.Items[0].QuantityDiff.String(), "sheet 200 vs 150 on hand")
		assert.Equal(t, "unmatched", response.Items[1].MatchStatus)
		repo.AssertExpectations(t)
		itemRepo.AssertExpectations(t)
	})

	t.Run("records the failure when the catalogue cannot be loaded", func(t *testing.T) {
		repo := new(MockComparisonRepository)
		itemRepo := new(MockCatalogRepository)
		service := newServiceUnderTest(repo, itemRepo)

		c := newPendingComparison(t)
		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("Save", mock.Anything, c).Return(nil).Twice()
		itemRepo.On("FindCatalog", mock.Anything).Return(nil, assert.AnError)

		_, err := service.RunMatching(context.Background(), c.ID)

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, procurement.ComparisonStatusFailed, c.Status)
		assert.Contains(t, c.Error, "warehouse catalogue")
		repo.AssertExpectations(t)
	})

	t.Run("rejects a comparison that is already being matched", func(t *testing.T) {
		repo := new(MockComparisonRepository)
		itemRepo := new(MockCatalogRepository)
		service := newServiceUnderTest(repo, itemRepo)

		c := newPendingComparison(t)
		require.NoError(t, c.BeginMatching())
		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := service.RunMatching(context.Background(), c.ID)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		itemRepo.AssertNotCalled(t, "FindCatalog", mock.Anything)
	})
}

func TestProcurementService_SetManualMatch(t *testing.T) {
	repo := new(MockComparisonRepository)
	itemRepo := new(MockCatalogRepository)
	service := newServiceUnderTest(repo, itemRepo)

	c := newPendingComparison(t)
	require.NoError(t, c.BeginMatching())
	require.NoError(t, c.CompleteMatching())

	pick := newCatalogItem(t, "CT-GR", "Granite countertop 2400mm", 5)
	repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)
	itemRepo.On("FindByID", mock.Anything, pick.ID).Return(pick, nil)

	rowID := c.Items[1].ID
	response, err := service.SetManualMatch(context.Background(), c.ID, rowID, ManualMatchRequest{ItemID: pick.ID})

	require.NoError(t, err)
	assert.Equal(t, "matched", response.Items[1].MatchStatus)
	assert.Equal(t, "manual", response.Items[1].MatchMethod)
	require.NotNil(t, response.Items[1].QuantityDiff)
	assert.Equal(t, "-2", response.Items[1].QuantityDiff.String(), "warehouse already holds more than the sheet")
	repo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
}
