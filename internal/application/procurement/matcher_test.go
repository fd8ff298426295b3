package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/procurement"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/furniflow/backend/internal/infrastructure/ai"
)

type stubAIMatcher struct {
	enabled  bool
	proposed []ai.ProposedMatch
	err      error
	called   bool
}

func (s *stubAIMatcher) Enabled() bool { return s.enabled }

func (s *stubAIMatcher) ProposeMatches(_ context.Context, _ []ai.SheetRow, _ []ai.CatalogItem) ([]ai.ProposedMatch, error) {
	s.called = true
	return s.proposed, s.err
}

func newCatalogItem(t *testing.T, sku, name string, onHand int64) *warehouse.Item {
	t.Helper()
	item, err := warehouse.NewItem(sku, name, "pcs")
	require.NoError(t, err)
	require.NoError(t, item.Receive(decimal.NewFromInt(onHand)))
	return item
}

func buildCatalog(t *testing.T) []*warehouse.Item {
	t.Helper()
	return []*warehouse.Item{
		newCatalogItem(t, "HNG-35", "Clip-on hinge 35mm", 150),
		newCatalogItem(t, "DS-450", "Ball bearing drawer slide 450mm", 100),
		newCatalogItem(t, "GL-500", "Wood glue 500g", 12),
	}
}

func buildComparison(t *testing.T) *procurement.Comparison {
	t.Helper()

	rows := []procurement.ComparisonItem{
		{SKU: "hng-35", Name: "Hinge clip-on 35", Quantity: decimal.NewFromInt(200), Unit: "pcs", UnitPrice: decimal.NewFromFloat(1.20)},
		{Name: "Drawer slide 450mm", Quantity: decimal.NewFromInt(80), Unit: "pcs", UnitPrice: decimal.NewFromFloat(4.50)},
		{Name: "Granite countertop", Quantity: decimal.NewFromInt(3), Unit: "m2", UnitPrice: decimal.NewFromFloat(88)},
	}
	c, err := procurement.NewComparison("PC-2026-00001", nil, "stock.csv", "procurement/key", rows, 0)
	require.NoError(t, err)
	require.NoError(t, c.BeginMatching())
	return c
}

func TestMatcher_RulesExactSKU(t *testing.T) {
	c := buildComparison(t)
	catalog := buildCatalog(t)
	m := NewMatcher(&stubAIMatcher{enabled: false}, zap.NewNop())

	require.NoError(t, m.Match(context.Background(), c, catalog))

	hinge := c.Items[0]
	require.NotNil(t, hinge.MatchedItemID)
	assert.Equal(t, catalog[0].ID, *hinge.MatchedItemID)
	assert.Equal(t, procurement.MatchStatusMatched, hinge.MatchStatus)
	assert.Equal(t, procurement.MatchMethodExactSKU, hinge.MatchMethod)
	assert.Equal(t, 1.0, hinge.MatchConfidence)
	require.NotNil(t, hinge.QuantityDiff)
	assert.True(t, hinge.QuantityDiff.Equal(decimal.NewFromInt(50)), "sheet 200 vs 150 on hand, got %s", hinge.QuantityDiff)
}

func TestMatcher_RulesSubstringIsFuzzy(t *testing.T) {
	c := buildComparison(t)
	catalog := buildCatalog(t)
	m := NewMatcher(&stubAIMatcher{enabled: false}, zap.NewNop())

	require.NoError(t, m.Match(context.Background(), c, catalog))

	slide := c.Items[1]
	require.NotNil(t, slide.MatchedItemID)
	assert.Equal(t, catalog[1].ID, *slide.MatchedItemID)
	assert.Equal(t, procurement.MatchStatusFuzzy, slide.MatchStatus)
	assert.Equal(t, procurement.MatchMethodSubstring, slide.MatchMethod)
	require.NotNil(t, slide.QuantityDiff)
	assert.True(t, slide.QuantityDiff.Equal(decimal.NewFromInt(-20)), "sheet 80 vs 100 on hand, got %s", slide.QuantityDiff)
}

func TestMatcher_RowWithoutCatalogCounterpart(t *testing.T) {
	c := buildComparison(t)
	m := NewMatcher(nil, zap.NewNop())

	require.NoError(t, m.Match(context.Background(), c, buildCatalog(t)))
	require.NoError(t, c.CompleteMatching())

	countertop := c.Items[2]
	assert.Nil(t, countertop.MatchedItemID)
	assert.Equal(t, procurement.MatchStatusUnmatched, countertop.MatchStatus)
	assert.Nil(t, countertop.QuantityDiff)
	assert.Equal(t, 2, c.MatchedRows)
	assert.Equal(t, 1, c.UnmatchedRows)
}

func TestMatcher_ModelProposalsAccepted(t *testing.T) {
	c := buildComparison(t)
	catalog := buildCatalog(t)
	stub := &stubAIMatcher{
		enabled: true,
		proposed: []ai.ProposedMatch{
			{RowIndex: 0, ItemID: catalog[0].ID.String(), Confidence: 0.95},
			{RowIndex: 1, ItemID: catalog[1].ID.String(), Confidence: 0.7},
			{RowIndex: 2, ItemID: ""},
			{RowIndex: 99, ItemID: catalog[2].ID.String(), Confidence: 0.9},
		},
	}
	m := NewMatcher(stub, zap.NewNop())

	require.NoError(t, m.Match(context.Background(), c, catalog))

	require.True(t, stub.called)
	assert.Equal(t, procurement.MatchStatusMatched, c.Items[0].MatchStatus)
	assert.Equal(t, procurement.MatchMethodAI, c.Items[0].MatchMethod)
	assert.Equal(t, procurement.MatchStatusFuzzy, c.Items[1].MatchStatus, "low confidence verdicts are fuzzy")
	assert.Equal(t, procurement.MatchStatusPending, c.Items[2].MatchStatus)
	require.NotNil(t, c.Items[0].QuantityDiff)
	assert.True(t, c.Items[0].QuantityDiff.Equal(decimal.NewFromInt(50)))
}

func TestMatcher_ModelFailureFallsBackToRules(t *testing.T) {
	c := buildComparison(t)
	catalog := buildCatalog(t)
	stub := &stubAIMatcher{enabled: true, err: errors.New("model unavailable")}
	m := NewMatcher(stub, zap.NewNop())

	require.NoError(t, m.Match(context.Background(), c, catalog))

	require.True(t, stub.called)
	assert.Equal(t, procurement.MatchMethodExactSKU, c.Items[0].MatchMethod)
	assert.Equal(t, procurement.MatchMethodSubstring, c.Items[1].MatchMethod)
}
