package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furniflow/backend/internal/domain/deal"
)

func TestTemplateEngine_RenderQuote(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.RenderHTML(DocumentData{
		Kind:         deal.DocumentKindQuote,
		Number:       "Q-2026-00007",
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CompanyName:  "FurniFlow LLC",
		CustomerName: "Acme Interiors",
		DealNumber:   "D-2026-00042",
		DealTitle:    "Office refit",
		Amount:       decimal.NewFromFloat(12500.50),
		Currency:     "RUB",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Commercial Quote")
	assert.Contains(t, html, "Q-2026-00007")
	assert.Contains(t, html, "D-2026-00042")
	assert.Contains(t, html, "Acme Interiors")
	assert.Contains(t, html, "12500.50 RUB")
	assert.Contains(t, html, "14.03.2026")
	assert.NotContains(t, html, "signatures")
}

func TestTemplateEngine_ContractHasSignatureBlock(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.RenderHTML(DocumentData{
		Kind:         deal.DocumentKindContract,
		Number:       "CTR-2026-00003",
		Date:         time.Now(),
		CompanyName:  "FurniFlow LLC",
		CustomerName: "Acme Interiors",
		Amount:       decimal.NewFromInt(900),
		Currency:     "RUB",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Supply Contract")
	assert.Contains(t, html, "signatures")
}

func TestTemplateEngine_RejectsUnknownKind(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	_, err = engine.RenderHTML(DocumentData{Kind: "receipt", Number: "X-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document kind")
}

func TestTemplateEngine_EscapesCustomerInput(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.RenderHTML(DocumentData{
		Kind:         deal.DocumentKindInvoice,
		Number:       "INV-2026-00001",
		Date:         time.Now(),
		CustomerName: "<script>alert(1)</script>",
		Amount:       decimal.NewFromInt(1),
		Currency:     "RUB",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
