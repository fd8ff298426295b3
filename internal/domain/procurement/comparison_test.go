package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComparison(t *testing.T) *Comparison {
	t.Helper()
	rows := []ComparisonItem{
		{SKU: "CH-100", Name: "Oak chair", Quantity: decimal.NewFromInt(10), Unit: "pcs", UnitPrice: decimal.NewFromFloat(149.90)},
		{Name: "Pine shelf", UnitPrice: decimal.NewFromFloat(39)},
	}
	c, err := NewComparison("PC-2026-00007", nil, "stock.xlsx", "procurement/abc/stock.xlsx", rows, 2)
	require.NoError(t, err)
	return c
}

func TestNewComparison(t *testing.T) {
	t.Run("assigns row order and defaults", func(t *testing.T) {
		c := newTestComparison(t)

		assert.Equal(t, ComparisonStatusPending, c.Status)
		assert.Equal(t, 2, c.TotalRows)
		assert.Equal(t, 2, c.SkippedRows)
		require.Len(t, c.Items, 2)
		assert.Equal(t, 0, c.Items[0].RowIndex)
		assert.Equal(t, 1, c.Items[1].RowIndex)
		assert.Equal(t, c.ID, c.Items[1].ComparisonID)
		assert.Equal(t, MatchStatusPending, c.Items[1].MatchStatus)
		assert.Equal(t, "1", c.Items[1].Quantity.String(), "zero quantity defaults to one unit")
		assert.Equal(t, "pcs", c.Items[1].Unit)
	})

	t.Run("rejects empty sheet", func(t *testing.T) {
		_, err := NewComparison("PC-2026-00008", nil, "stock.csv", "key", nil, 5)
		assert.Error(t, err)
	})
}

func TestComparison_MatchingLifecycle(t *testing.T) {
	c := newTestComparison(t)
	itemID := uuid.New()

	require.NoError(t, c.BeginMatching())
	assert.Equal(t, ComparisonStatusMatching, c.Status)

	err := c.RecordMatch(c.Items[0].ID, itemID, MatchStatusMatched, MatchMethodExactSKU, 1.0, decimal.NewFromInt(4))
	require.NoError(t, err)

	require.NoError(t, c.CompleteMatching())
	assert.Equal(t, ComparisonStatusCompleted, c.Status)
	assert.NotNil(t, c.MatchedAt)
	assert.Equal(t, 1, c.MatchedRows)
	assert.Equal(t, 1, c.UnmatchedRows)

	row := c.Items[0]
	require.NotNil(t, row.MatchedItemID)
	assert.Equal(t, itemID, *row.MatchedItemID)
	require.NotNil(t, row.QuantityDiff)
	assert.True(t, row.QuantityDiff.Equal(decimal.NewFromInt(6)), "sheet 10 vs 4 on hand")
	assert.Equal(t, MatchStatusUnmatched, c.Items[1].MatchStatus)
}

func TestComparison_RerunClearsResults(t *testing.T) {
	c := newTestComparison(t)
	require.NoError(t, c.BeginMatching())
	require.NoError(t, c.RecordMatch(c.Items[0].ID, uuid.New(), MatchStatusFuzzy, MatchMethodSubstring, 0.6, decimal.NewFromInt(3)))
	require.NoError(t, c.CompleteMatching())

	require.NoError(t, c.BeginMatching())

	assert.Equal(t, ComparisonStatusMatching, c.Status)
	assert.Nil(t, c.MatchedAt)
	assert.Equal(t, 0, c.MatchedRows)
	for i := range c.Items {
		assert.Nil(t, c.Items[i].MatchedItemID)
		assert.Equal(t, MatchStatusPending, c.Items[i].MatchStatus)
		assert.Nil(t, c.Items[i].QuantityDiff)
	}
}

func TestComparison_FailMatching(t *testing.T) {
	c := newTestComparison(t)
	require.NoError(t, c.BeginMatching())
	require.NoError(t, c.FailMatching("catalogue unavailable"))

	assert.Equal(t, ComparisonStatusFailed, c.Status)
	assert.Equal(t, "catalogue unavailable", c.Error)

	require.NoError(t, c.BeginMatching(), "a failed comparison can be re-run")
}

func TestComparison_SetManualMatch(t *testing.T) {
	c := newTestComparison(t)
	require.NoError(t, c.BeginMatching())
	require.NoError(t, c.CompleteMatching())
	require.Equal(t, 2, c.UnmatchedRows)

	itemID := uuid.New()
	require.NoError(t, c.SetManualMatch(c.Items[1].ID, itemID, decimal.NewFromInt(1)))

	row := c.Items[1]
	assert.Equal(t, MatchStatusMatched, row.MatchStatus)
	assert.Equal(t, MatchMethodManual, row.MatchMethod)
	assert.Equal(t, 1.0, row.MatchConfidence)
	assert.Equal(t, 1, c.MatchedRows)
	assert.Equal(t, 1, c.UnmatchedRows)

	err := c.SetManualMatch(uuid.New(), itemID, decimal.Zero)
	assert.Error(t, err, "unknown row is rejected")
}

func TestComparison_RecordMatchOutsideMatching(t *testing.T) {
	c := newTestComparison(t)
	err := c.RecordMatch(c.Items[0].ID, uuid.New(), MatchStatusMatched, MatchMethodExactSKU, 1.0, decimal.Zero)
	assert.Error(t, err)
}
