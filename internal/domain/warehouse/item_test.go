package warehouse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *Item {
	t.Helper()
	item, err := NewItem("PNL-18-WHT", "White panel 18mm", "pcs")
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("creates item with defaults", func(t *testing.T) {
		item, err := NewItem("FIT-001", "Hinge set", "")
		require.NoError(t, err)
		assert.Equal(t, "FIT-001", item.SKU)
		assert.Equal(t, "pcs", item.Unit)
		assert.True(t, item.Quantity.IsZero())
		assert.True(t, item.ReservedQuantity.IsZero())
		assert.Equal(t, 1, item.GetVersion())
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewItem("  ", "Hinge set", "pcs")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem("FIT-001", "", "pcs")
		assert.Error(t, err)
	})
}

func TestItem_ReceiveAndIssue(t *testing.T) {
	item := newTestItem(t)

	require.NoError(t, item.Receive(decimal.NewFromInt(10)))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))

	require.NoError(t, item.Issue(decimal.NewFromInt(4)))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(6)))

	err := item.Issue(decimal.NewFromInt(7))
	assert.Error(t, err, "issuing more than available must fail")

	err = item.Receive(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestItem_ReservationBookkeeping(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.Receive(decimal.NewFromInt(10)))

	t.Run("reserve moves available to reserved", func(t *testing.T) {
		require.NoError(t, item.Reserve(decimal.NewFromInt(6)))
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, item.AvailableQuantity().Equal(decimal.NewFromInt(4)))
	})

	t.Run("cannot reserve beyond available", func(t *testing.T) {
		err := item.Reserve(decimal.NewFromInt(5))
		assert.Error(t, err)
	})

	t.Run("cannot issue reserved stock", func(t *testing.T) {
		err := item.Issue(decimal.NewFromInt(5))
		assert.Error(t, err)
		require.NoError(t, item.Issue(decimal.NewFromInt(4)))
	})

	t.Run("unreserve returns stock to available", func(t *testing.T) {
		require.NoError(t, item.Unreserve(decimal.NewFromInt(2)))
		assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, item.AvailableQuantity().Equal(decimal.NewFromInt(2)))
	})

	t.Run("consume removes both quantity and reservation", func(t *testing.T) {
		require.NoError(t, item.ConsumeReserved(decimal.NewFromInt(4)))
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, item.ReservedQuantity.IsZero())
	})

	t.Run("cannot unreserve more than reserved", func(t *testing.T) {
		assert.Error(t, item.Unreserve(decimal.NewFromInt(1)))
		assert.Error(t, item.ConsumeReserved(decimal.NewFromInt(1)))
	})
}

func TestItem_Adjust(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.Receive(decimal.NewFromInt(10)))
	require.NoError(t, item.Reserve(decimal.NewFromInt(4)))

	t.Run("requires reason", func(t *testing.T) {
		err := item.Adjust(decimal.NewFromInt(8), "")
		assert.Error(t, err)
	})

	t.Run("cannot adjust below reserved", func(t *testing.T) {
		err := item.Adjust(decimal.NewFromInt(3), "stocktake")
		assert.Error(t, err)
	})

	t.Run("sets counted quantity", func(t *testing.T) {
		require.NoError(t, item.Adjust(decimal.NewFromInt(8), "stocktake"))
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(8)))
		assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(4)))
	})
}

func TestItem_LowStockEvent(t *testing.T) {
	item := newTestItem(t)
	require.NoError(t, item.Receive(decimal.NewFromInt(10)))
	require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(5)))
	item.ClearDomainEvents()

	require.NoError(t, item.Issue(decimal.NewFromInt(7)))

	var found bool
	for _, ev := range item.GetDomainEvents() {
		if ev.EventType() == EventTypeLowStock {
			found = true
		}
	}
	assert.True(t, found, "dropping below the threshold should raise a low stock event")
}

func TestReservation_Lifecycle(t *testing.T) {
	item := newTestItem(t)

	t.Run("pending to confirmed to released", func(t *testing.T) {
		r, err := NewReservation(item.ID, decimal.NewFromInt(3), "kitchen project")
		require.NoError(t, err)
		assert.Equal(t, ReservationStatusPending, r.Status)

		require.NoError(t, r.Confirm())
		assert.Equal(t, ReservationStatusConfirmed, r.Status)

		require.NoError(t, r.Release())
		assert.Equal(t, ReservationStatusReleased, r.Status)
		assert.False(t, r.IsActive())
	})

	t.Run("pending cannot be released directly", func(t *testing.T) {
		r, err := NewReservation(item.ID, decimal.NewFromInt(3), "")
		require.NoError(t, err)
		assert.Error(t, r.Release())
	})

	t.Run("terminal states reject transitions", func(t *testing.T) {
		r, err := NewReservation(item.ID, decimal.NewFromInt(3), "")
		require.NoError(t, err)
		require.NoError(t, r.Cancel())
		assert.Error(t, r.Confirm())
		assert.Error(t, r.Cancel())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewReservation(item.ID, decimal.Zero, "")
		assert.Error(t, err)
	})
}
