package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/furniflow/backend/internal/domain/partner"
	"github.com/furniflow/backend/internal/domain/shared"
)

// MockSupplierRepository is a mock implementation of SupplierRepository for testing
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindActive(ctx context.Context) ([]*partner.Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestSupplierService_Create(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	repo.On("ExistsByCode", mock.Anything, "ACME").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	resp, err := service.Create(context.Background(), CreateSupplierRequest{
		Code:          "acme",
		Name:          "Acme Fittings",
		ContactPerson: "Ivan Petrov",
		Email:         "sales@acme.example",
		PaymentTerms:  "net 30",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACME", resp.Code)
	assert.Equal(t, "Acme Fittings", resp.Name)
	assert.Equal(t, string(partner.SupplierStatusActive), resp.Status)
	repo.AssertExpectations(t)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	repo.On("ExistsByCode", mock.Anything, "ACME").Return(true, nil)

	_, err := service.Create(context.Background(), CreateSupplierRequest{
		Code: "ACME",
		Name: "Acme Fittings",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CODE_TAKEN", domainErr.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestSupplierService_Create_EmptyName(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	_, err := service.Create(context.Background(), CreateSupplierRequest{
		Code: "ACME",
		Name: "   ",
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "ExistsByCode")
}

func TestSupplierService_Deactivate(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	supplier, err := partner.NewSupplier("ACME", "Acme Fittings")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("Save", mock.Anything, supplier).Return(nil)

	resp, err := service.Deactivate(context.Background(), supplier.ID)

	require.NoError(t, err)
	assert.Equal(t, string(partner.SupplierStatusInactive), resp.Status)
	repo.AssertExpectations(t)
}

func TestSupplierService_List_AppliesStatusFilter(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	supplier, err := partner.NewSupplier("ACME", "Acme Fittings")
	require.NoError(t, err)

	var captured shared.Filter
	repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(shared.Filter)
		}).
		Return([]*partner.Supplier{supplier}, nil)
	repo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	results, total, err := service.List(context.Background(), SupplierListFilter{
		Status:   "active",
		Page:     2,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 10, captured.PageSize)
	assert.Equal(t, "active", captured.Filters["status"])
}
