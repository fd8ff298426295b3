package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/task"
)

// MockTaskRepository is a mock implementation of Repository for testing
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, assigneeID, filter)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindPool(ctx context.Context, roleCode string, filter shared.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, roleCode, filter)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOverdue(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, roleCode string, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, roleCode, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(taskRepo *MockTaskRepository, userRepo *MockUserRepository) *TaskService {
	return NewTaskService(taskRepo, nil, nil, nil, userRepo)
}

func createTestUser(t *testing.T, roleCode string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Test Installer", "installer@example.com", roleCode)
	require.NoError(t, err)
	return user
}

func TestTaskService_Create_RejectsBothTargets(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	assigneeID := uuid.New()
	_, err := service.Create(context.Background(), CreateTaskRequest{
		Title:      "Measure the site",
		AssigneeID: &assigneeID,
		PoolRole:   "installer",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TARGET", domainErr.Code)
	taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_Create_RejectsNeitherTarget(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	_, err := service.Create(context.Background(), CreateTaskRequest{Title: "Measure the site"})

	require.Error(t, err)
	taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_Create_PoolTask(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	taskRepo.On("Create", mock.Anything, mock.MatchedBy(func(created *task.Task) bool {
		return created.PoolRole == "installer" && created.AssigneeID == nil
	})).Return(nil)

	resp, err := service.Create(context.Background(), CreateTaskRequest{
		Title:    "Deliver wardrobe",
		PoolRole: "installer",
	})

	require.NoError(t, err)
	assert.Equal(t, "installer", resp.PoolRole)
	assert.Nil(t, resp.AssigneeID)
	taskRepo.AssertExpectations(t)
}

func TestTaskService_Claim_Succeeds(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	pooled, err := task.NewPoolTask("Deliver wardrobe", "", "installer")
	require.NoError(t, err)
	pooled.ClearDomainEvents()
	user := createTestUser(t, "installer")

	taskRepo.On("FindByID", mock.Anything, pooled.ID).Return(pooled, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	taskRepo.On("Save", mock.Anything, pooled).Return(nil)

	resp, err := service.Claim(context.Background(), pooled.ID, user.ID)

	require.NoError(t, err)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, user.ID, *resp.AssigneeID)
	assert.Empty(t, resp.PoolRole)
}

func TestTaskService_Claim_WrongRole(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	pooled, err := task.NewPoolTask("Deliver wardrobe", "", "installer")
	require.NoError(t, err)
	user := createTestUser(t, "sales_manager")

	taskRepo.On("FindByID", mock.Anything, pooled.ID).Return(pooled, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = service.Claim(context.Background(), pooled.ID, user.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WRONG_ROLE", domainErr.Code)
	taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_Claim_LosesRace(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	pooled, err := task.NewPoolTask("Deliver wardrobe", "", "installer")
	require.NoError(t, err)
	pooled.ClearDomainEvents()
	user := createTestUser(t, "installer")

	taskRepo.On("FindByID", mock.Anything, pooled.ID).Return(pooled, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	// Another claimer bumped the version between our read and our write
	taskRepo.On("Save", mock.Anything, pooled).Return(shared.ErrConcurrencyConflict)

	_, err = service.Claim(context.Background(), pooled.ID, user.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_CLAIMED", domainErr.Code)
}

func TestTaskService_Claim_AlreadyAssigned(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	service := newTestService(taskRepo, userRepo)

	assigned, err := task.NewTask("Deliver wardrobe", "", uuid.New())
	require.NoError(t, err)
	user := createTestUser(t, "installer")

	taskRepo.On("FindByID", mock.Anything, assigned.ID).Return(assigned, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = service.Claim(context.Background(), assigned.ID, user.ID)
	require.Error(t, err)
}

// MockChecklistRepository is a mock implementation of ChecklistRepository for testing
type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.ChecklistItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*task.ChecklistItem, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]*task.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) Save(ctx context.Context, item *task.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockChecklistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTaskService_ReorderChecklist(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	checklistRepo := new(MockChecklistRepository)
	service := NewTaskService(taskRepo, nil, checklistRepo, nil, nil)

	parent, err := task.NewTask("Assemble kitchen", "", uuid.New())
	require.NoError(t, err)

	first, err := task.NewChecklistItem(parent.ID, "Unpack modules", 0)
	require.NoError(t, err)
	second, err := task.NewChecklistItem(parent.ID, "Mount cabinets", 1)
	require.NoError(t, err)

	taskRepo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
	checklistRepo.On("FindByTask", mock.Anything, parent.ID).Return([]*task.ChecklistItem{first, second}, nil)
	checklistRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	items, err := service.ReorderChecklist(context.Background(), parent.ID, ReorderChecklistRequest{
		ItemIDs: []uuid.UUID{second.ID, first.ID},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, 1, items[1].Position)
}

func TestTaskService_ReorderChecklist_RejectsPartialList(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	checklistRepo := new(MockChecklistRepository)
	service := NewTaskService(taskRepo, nil, checklistRepo, nil, nil)

	parent, err := task.NewTask("Assemble kitchen", "", uuid.New())
	require.NoError(t, err)

	first, err := task.NewChecklistItem(parent.ID, "Unpack modules", 0)
	require.NoError(t, err)
	second, err := task.NewChecklistItem(parent.ID, "Mount cabinets", 1)
	require.NoError(t, err)

	taskRepo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
	checklistRepo.On("FindByTask", mock.Anything, parent.ID).Return([]*task.ChecklistItem{first, second}, nil)

	_, err = service.ReorderChecklist(context.Background(), parent.ID, ReorderChecklistRequest{
		ItemIDs: []uuid.UUID{first.ID},
	})
	require.Error(t, err)
	checklistRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
