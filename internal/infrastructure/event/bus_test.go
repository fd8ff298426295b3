package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/furniflow/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{shared.NewBaseDomainEvent(eventType, "Deal", uuid.New())}
}

func TestInMemoryEventBus_StopDrainsQueuedEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zaptest.NewLogger(t))
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))

	require.NoError(t, bus.Publish(ctx, newTestEvent("deal.won"), newTestEvent("deal.lost")))
	require.NoError(t, bus.Stop(ctx))

	events := handler.received()
	require.Len(t, events, 2)
	assert.Equal(t, "deal.won", events[0].EventType())
	assert.Equal(t, "deal.lost", events[1].EventType())
}

func TestInMemoryEventBus_DeliversInlineWhenStopped(t *testing.T) {
	bus := NewInMemoryEventBus(zaptest.NewLogger(t))
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("deal.won")))

	assert.Len(t, handler.received(), 1, "no worker is running, delivery happens on the caller")
}

func TestInMemoryEventBus_TypedSubscriptionFilters(t *testing.T) {
	bus := NewInMemoryEventBus(zaptest.NewLogger(t))
	won := &recordingHandler{types: []string{"deal.won"}}
	bus.Subscribe(won)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("deal.won"), newTestEvent("deal.lost")))
	require.NoError(t, bus.Stop(ctx))

	events := won.received()
	require.Len(t, events, 1)
	assert.Equal(t, "deal.won", events[0].EventType())
}
