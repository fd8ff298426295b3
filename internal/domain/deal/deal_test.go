package deal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeal(t *testing.T) *Deal {
	t.Helper()
	d, err := NewDeal("D-2026-00042", "Kitchen for Ivanov", "Ivanov A.", uuid.New(), uuid.New())
	require.NoError(t, err)
	return d
}

func TestNewDeal(t *testing.T) {
	d := newTestDeal(t)
	assert.Equal(t, DealStatusOpen, d.Status)
	assert.True(t, d.Amount.IsZero())

	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDealCreated, events[0].EventType())

	_, err := NewDeal("", "t", "c", uuid.New(), uuid.New())
	assert.Error(t, err)
	_, err = NewDeal("D-1", "t", "c", uuid.Nil, uuid.New())
	assert.Error(t, err)
}

func TestDeal_MoveToStage(t *testing.T) {
	d := newTestDeal(t)
	d.ClearDomainEvents()
	target := uuid.New()

	require.NoError(t, d.MoveToStage(target))
	assert.Equal(t, target, d.StageID)
	require.Len(t, d.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeDealStageChanged, d.GetDomainEvents()[0].EventType())

	t.Run("same stage is a no-op", func(t *testing.T) {
		d.ClearDomainEvents()
		require.NoError(t, d.MoveToStage(target))
		assert.Empty(t, d.GetDomainEvents())
	})

	t.Run("closed deal cannot move", func(t *testing.T) {
		require.NoError(t, d.Win())
		assert.Error(t, d.MoveToStage(uuid.New()))
	})
}

func TestDeal_WinLoseReopen(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		d := newTestDeal(t)
		require.NoError(t, d.SetAmount(decimal.NewFromInt(250000), "RUB"))
		require.NoError(t, d.Win())
		assert.Equal(t, DealStatusWon, d.Status)
		assert.NotNil(t, d.ClosedAt)
		assert.Error(t, d.Win(), "won deal cannot be won again")
		assert.Error(t, d.Lose("competitor"))
	})

	t.Run("lose requires a reason", func(t *testing.T) {
		d := newTestDeal(t)
		assert.Error(t, d.Lose("  "))
		require.NoError(t, d.Lose("too expensive"))
		assert.Equal(t, DealStatusLost, d.Status)
		assert.Equal(t, "too expensive", d.LostReason)
	})

	t.Run("reopen clears the outcome", func(t *testing.T) {
		d := newTestDeal(t)
		require.NoError(t, d.Lose("postponed"))
		require.NoError(t, d.Reopen())
		assert.Equal(t, DealStatusOpen, d.Status)
		assert.Empty(t, d.LostReason)
		assert.Nil(t, d.ClosedAt)
		assert.Error(t, d.Reopen())
	})

	t.Run("closed deal rejects edits", func(t *testing.T) {
		d := newTestDeal(t)
		require.NoError(t, d.Win())
		assert.Error(t, d.Update("t", "c", "", "", "", ""))
		assert.Error(t, d.SetAmount(decimal.NewFromInt(1), ""))
	})
}

func TestDocument_Lifecycle(t *testing.T) {
	dealID := uuid.New()

	t.Run("issue requires rendering", func(t *testing.T) {
		doc, err := NewDocument(dealID, DocumentKindQuote, "Q-2026-00007", decimal.NewFromInt(120000), "RUB")
		require.NoError(t, err)
		assert.Equal(t, DocumentStatusDraft, doc.Status)

		assert.Error(t, doc.Issue())

		require.NoError(t, doc.AttachRendering("documents/q-2026-00007.pdf"))
		require.NoError(t, doc.Issue())
		assert.Equal(t, DocumentStatusIssued, doc.Status)
		assert.NotNil(t, doc.IssuedAt)
	})

	t.Run("issued document cannot be re-rendered", func(t *testing.T) {
		doc, err := NewDocument(dealID, DocumentKindInvoice, "INV-2026-00003", decimal.NewFromInt(1), "RUB")
		require.NoError(t, err)
		require.NoError(t, doc.AttachRendering("documents/a.pdf"))
		require.NoError(t, doc.Issue())
		assert.Error(t, doc.AttachRendering("documents/b.pdf"))
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		doc, err := NewDocument(dealID, DocumentKindContract, "CTR-2026-00001", decimal.Zero, "")
		require.NoError(t, err)
		require.NoError(t, doc.Cancel())
		assert.Error(t, doc.Cancel())
		assert.Error(t, doc.Issue())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewDocument(dealID, DocumentKind("receipt"), "R-1", decimal.Zero, "")
		assert.Error(t, err)
	})
}
