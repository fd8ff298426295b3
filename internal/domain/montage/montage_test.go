package montage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("M-2026-00015", "Petrov S.", "Lenina 14, apt 7")
	require.NoError(t, err)
	return o
}

func TestOrder_Schedule(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour)

	t.Run("requires a crew", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.Schedule(tomorrow, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.Schedule(time.Now().Add(-48*time.Hour), []uuid.UUID{uuid.New()}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate crew members", func(t *testing.T) {
		o := newTestOrder(t)
		id := uuid.New()
		err := o.Schedule(tomorrow, []uuid.UUID{id, id}, nil)
		assert.Error(t, err)
	})

	t.Run("lead must be in the crew", func(t *testing.T) {
		o := newTestOrder(t)
		outsider := uuid.New()
		err := o.Schedule(tomorrow, []uuid.UUID{uuid.New()}, &outsider)
		assert.Error(t, err)
	})

	t.Run("schedules with date and crew", func(t *testing.T) {
		o := newTestOrder(t)
		lead := uuid.New()
		require.NoError(t, o.Schedule(tomorrow, []uuid.UUID{lead, uuid.New()}, &lead))
		assert.Equal(t, OrderStatusScheduled, o.Status)
		require.Len(t, o.Installers, 2)
		assert.True(t, o.Installers[0].IsLead)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("rescheduling a scheduled order replaces the crew", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Schedule(tomorrow, []uuid.UUID{uuid.New()}, nil))
		require.NoError(t, o.Schedule(tomorrow.Add(24*time.Hour), []uuid.UUID{uuid.New(), uuid.New()}, nil))
		assert.Len(t, o.Installers, 2)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	o := newTestOrder(t)
	tomorrow := time.Now().Add(24 * time.Hour)

	assert.Error(t, o.Start(), "planned order cannot start")

	require.NoError(t, o.Schedule(tomorrow, []uuid.UUID{uuid.New()}, nil))
	require.NoError(t, o.Start())
	assert.Error(t, o.Unschedule(), "in-progress order cannot return to backlog")

	require.NoError(t, o.Complete())
	assert.NotNil(t, o.CompletedAt)
	assert.Error(t, o.Cancel("x"), "completed is terminal")
}

func TestOrder_Cancel(t *testing.T) {
	o := newTestOrder(t)
	assert.Error(t, o.Cancel(""), "reason is required")
	require.NoError(t, o.Cancel("customer postponed"))
	assert.Equal(t, OrderStatusCancelled, o.Status)
}

func TestNewItem(t *testing.T) {
	orderID := uuid.New()

	t.Run("defaults the unit to pcs", func(t *testing.T) {
		item, err := NewItem(orderID, "Wardrobe Oslo", decimal.NewFromInt(2), "", "white matte")
		require.NoError(t, err)
		assert.Equal(t, "pcs", item.Unit)
		assert.Equal(t, "Wardrobe Oslo", item.Name)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewItem(orderID, "Wardrobe Oslo", decimal.Zero, "pcs", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem(orderID, "  ", decimal.NewFromInt(1), "pcs", "")
		assert.Error(t, err)
	})
}

func TestItem_Update(t *testing.T) {
	item, err := NewItem(uuid.New(), "Kitchen top", decimal.NewFromInt(1), "pcs", "")
	require.NoError(t, err)

	require.NoError(t, item.Update("Kitchen top 3m", decimal.NewFromFloat(3.2), "m", "oak"))
	assert.Equal(t, "Kitchen top 3m", item.Name)
	assert.Equal(t, "m", item.Unit)

	assert.Error(t, item.Update("", decimal.NewFromInt(1), "pcs", ""))
	assert.Error(t, item.Update("Kitchen top", decimal.NewFromInt(-1), "pcs", ""))
}
