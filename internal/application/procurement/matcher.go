package procurement

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/procurement"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/furniflow/backend/internal/infrastructure/ai"
)

// AIMatcher proposes row-to-catalogue pairings via a language model
type AIMatcher interface {
	Enabled() bool
	ProposeMatches(ctx context.Context, rows []ai.SheetRow, catalog []ai.CatalogItem) ([]ai.ProposedMatch, error)
}

// Matcher pairs spreadsheet rows with warehouse items. It asks the model
// first when one is configured and falls back to deterministic rules
// when the model is unavailable or returns garbage. The rules are exact
// SKU equality, then normalized name containment.
type Matcher struct {
	client AIMatcher
	logger *zap.Logger
}

// NewMatcher creates a new Matcher
func NewMatcher(client AIMatcher, logger *zap.Logger) *Matcher {
	return &Matcher{client: client, logger: logger}
}

const (
	confidenceExactSKU  = 1.0
	confidenceSubstring = 0.6

	// Model verdicts at or above this confidence count as firm matches;
	// below it they are fuzzy.
	aiFirmThreshold = 0.8
)

// Match records a pairing on the comparison for every row the catalogue
// plausibly carries. Rows left untouched become unmatched when the
// comparison completes.
func (m *Matcher) Match(ctx context.Context, c *procurement.Comparison, catalog []*warehouse.Item) error {
	if m.client != nil && m.client.Enabled() {
		err := m.matchWithModel(ctx, c, catalog)
		if err == nil {
			return nil
		}
		m.logger.Warn("Model matching failed, falling back to rule matching",
			zap.String("comparison_id", c.ID.String()),
			zap.Error(err),
		)
	}
	return m.matchWithRules(c, catalog)
}

func (m *Matcher) matchWithModel(ctx context.Context, c *procurement.Comparison, catalog []*warehouse.Item) error {
	rows := make([]ai.SheetRow, 0, len(c.Items))
	for i := range c.Items {
		rows = append(rows, ai.SheetRow{
			Index: c.Items[i].RowIndex,
			SKU:   c.Items[i].SKU,
			Name:  c.Items[i].Name,
			Unit:  c.Items[i].Unit,
		})
	}
	items := make([]ai.CatalogItem, 0, len(catalog))
	for _, item := range catalog {
		items = append(items, ai.CatalogItem{
			ID:   item.ID.String(),
			SKU:  item.SKU,
			Name: item.Name,
			Unit: item.Unit,
		})
	}

	proposed, err := m.client.ProposeMatches(ctx, rows, items)
	if err != nil {
		return err
	}

	rowsByIndex := make(map[int]*procurement.ComparisonItem, len(c.Items))
	for i := range c.Items {
		rowsByIndex[c.Items[i].RowIndex] = &c.Items[i]
	}
	catalogByID := make(map[string]*warehouse.Item, len(catalog))
	for _, item := range catalog {
		catalogByID[item.ID.String()] = item
	}

	seen := make(map[int]bool)
	for _, p := range proposed {
		if p.ItemID == "" || seen[p.RowIndex] {
			continue
		}
		row, ok := rowsByIndex[p.RowIndex]
		if !ok {
			continue
		}
		item, ok := catalogByID[p.ItemID]
		if !ok {
			continue
		}
		seen[p.RowIndex] = true

		status := procurement.MatchStatusFuzzy
		if p.Confidence >= aiFirmThreshold {
			status = procurement.MatchStatusMatched
		}
		if err := c.RecordMatch(row.ID, item.ID, status, procurement.MatchMethodAI, p.Confidence, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (m *Matcher) matchWithRules(c *procurement.Comparison, catalog []*warehouse.Item) error {
	for i := range c.Items {
		row := &c.Items[i]
		item, method := bestItem(row, catalog)
		if item == nil {
			continue
		}
		status := procurement.MatchStatusMatched
		confidence := confidenceExactSKU
		if method == procurement.MatchMethodSubstring {
			status = procurement.MatchStatusFuzzy
			confidence = confidenceSubstring
		}
		if err := c.RecordMatch(row.ID, item.ID, status, method, confidence, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// bestItem pairs a row with a catalogue item. SKU equality wins over name
// containment; within a tier the first item in catalogue order wins, so
// the outcome is deterministic for a given catalogue.
func bestItem(row *procurement.ComparisonItem, catalog []*warehouse.Item) (*warehouse.Item, procurement.MatchMethod) {
	rowSKU := normalize(row.SKU)
	rowName := normalize(row.Name)

	var byName *warehouse.Item
	for _, item := range catalog {
		if rowSKU != "" && normalize(item.SKU) == rowSKU {
			return item, procurement.MatchMethodExactSKU
		}
		if byName != nil || rowName == "" {
			continue
		}
		itemName := normalize(item.Name)
		if itemName == "" {
			continue
		}
		if strings.Contains(itemName, rowName) || strings.Contains(rowName, itemName) {
			byName = item
		}
	}

	if byName != nil {
		return byName, procurement.MatchMethodSubstring
	}
	return nil, ""
}

// normalize lowercases and collapses whitespace for comparison
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
