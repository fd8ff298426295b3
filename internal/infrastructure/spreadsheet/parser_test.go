package spreadsheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_BasicSheet(t *testing.T) {
	input := "SKU,Name,Unit,Price\nCH-100,Oak chair,pcs,149.90\n,Pine shelf,pcs,39.00\n"

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 0, result.Skipped)

	assert.Equal(t, "CH-100", result.Rows[0].SKU)
	assert.Equal(t, "Oak chair", result.Rows[0].Name)
	assert.Equal(t, "pcs", result.Rows[0].Unit)
	assert.Equal(t, "149.9", result.Rows[0].Price.String())

	assert.Empty(t, result.Rows[1].SKU)
	assert.Equal(t, "Pine shelf", result.Rows[1].Name)
	assert.Equal(t, "1", result.Rows[1].Quantity.String(), "missing quantity column defaults to one unit")
}

func TestParseCSV_StripsBOMAndSniffsSemicolon(t *testing.T) {
	input := "\xEF\xBB\xBFArticle;Description;Price\nTB-7;Dining table;1 299,50\n"

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	assert.Equal(t, "TB-7", result.Rows[0].SKU)
	assert.Equal(t, "Dining table", result.Rows[0].Name)
	assert.Equal(t, "1299.5", result.Rows[0].Price.String())
}

func TestParseCSV_SkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"name,price",
		"Wardrobe,899.00",
		"Broken row,not-a-price",
		",12.00",
		",,",
		"Couch,-5",
	}, "\n")

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 3, result.Skipped)
}

func TestParseCSV_QuantityColumn(t *testing.T) {
	input := strings.Join([]string{
		"name,qty,price",
		"Chair,4,149.90",
		"Shelf,,39.00",
		"Stool,zero,15.00",
	}, "\n")

	result, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "4", result.Rows[0].Quantity.String())
	assert.Equal(t, "1", result.Rows[1].Quantity.String(), "empty quantity cell means one unit")
	assert.Equal(t, 1, result.Skipped, "unparseable quantity skips the row")
}

func TestParseCSV_MissingPriceColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name,notes\nChair,sturdy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price column")
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParse_RejectsUnknownExtension(t *testing.T) {
	_, err := Parse("prices.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported spreadsheet format")
}

func TestParseNumber_Formats(t *testing.T) {
	cases := map[string]string{
		"149.90":   "149.9",
		"1 234,56": "1234.56",
		"1,234.56": "1234.56",
		"0":        "0",
	}
	for input, want := range cases {
		got, err := parseNumber(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got.String(), input)
	}

	for _, bad := range []string{"", "abc", "-1"} {
		_, err := parseNumber(bad)
		assert.Error(t, err, bad)
	}
}
