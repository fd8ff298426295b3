package activity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/furniflow/backend/internal/domain/activity"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/infrastructure/cache"
)

// MockActivityRepository is a mock implementation of Repository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]*activity.Entry, error) {
	args := m.Called(ctx, aggregateType, aggregateID, filter)
	return args.Get(0).([]*activity.Entry), args.Error(1)
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*activity.Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*activity.Entry), args.Error(1)
}

func (m *MockActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, e *activity.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(actor uuid.UUID) *testEvent {
	base := shared.NewBaseDomainEvent("deal.won", "Deal", uuid.New()).WithActor(actor)
	return &testEvent{BaseDomainEvent: base}
}

func TestRecorder_Handle_SavesEntry(t *testing.T) {
	repo := new(MockActivityRepository)
	recorder := NewRecorder(repo, zaptest.NewLogger(t))

	actor := uuid.New()
	event := newTestEvent(actor)

	var saved *activity.Entry
	repo.On("Save", mock.Anything, mock.AnythingOfType("*activity.Entry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*activity.Entry)
		}).
		Return(nil)

	err := recorder.Handle(context.Background(), event)

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "deal.won", saved.EventType)
	assert.Equal(t, "Deal", saved.AggregateType)
	assert.Equal(t, event.AggregateID(), saved.AggregateID)
	require.NotNil(t, saved.ActorID)
	assert.Equal(t, actor, *saved.ActorID)
	assert.NotEmpty(t, saved.Payload)
}

func TestRecorder_Handle_AnonymousActor(t *testing.T) {
	repo := new(MockActivityRepository)
	recorder := NewRecorder(repo, zaptest.NewLogger(t))

	event := newTestEvent(uuid.Nil)

	var saved *activity.Entry
	repo.On("Save", mock.Anything, mock.AnythingOfType("*activity.Entry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*activity.Entry)
		}).
		Return(nil)

	require.NoError(t, recorder.Handle(context.Background(), event))
	require.NotNil(t, saved)
	assert.Nil(t, saved.ActorID)
}

func TestRecorder_Handle_DropsRedeliveredEvents(t *testing.T) {
	repo := new(MockActivityRepository)
	recorder := NewRecorder(repo, zaptest.NewLogger(t))
	recorder.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore())

	event := newTestEvent(uuid.New())

	repo.On("Save", mock.Anything, mock.AnythingOfType("*activity.Entry")).Return(nil).Once()

	require.NoError(t, recorder.Handle(context.Background(), event))
	require.NoError(t, recorder.Handle(context.Background(), event))

	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestRecorder_EventTypes_SubscribesToEverything(t *testing.T) {
	recorder := NewRecorder(new(MockActivityRepository), zaptest.NewLogger(t))
	assert.Empty(t, recorder.EventTypes())
}
