package spreadsheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ParsedRow is one normalized line extracted from a supplier file
type ParsedRow struct {
	SKU      string
	Name     string
	Unit     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Result holds the parsed rows plus the count of lines that could not be
// interpreted (missing name, unparseable price).
type Result struct {
	Rows    []ParsedRow
	Skipped int
}

// Recognized header aliases, lowercase. Supplier sheets come from many
// sources so the column names vary.
var (
	skuHeaders   = []string{"sku", "article", "articul", "code", "артикул", "код"}
	nameHeaders  = []string{"name", "item", "description", "product", "наименование", "название", "товар"}
	unitHeaders  = []string{"unit", "uom", "ед", "ед.", "ед. изм.", "единица"}
	qtyHeaders   = []string{"quantity", "qty", "amount", "кол-во", "количество"}
	priceHeaders = []string{"price", "cost", "цена", "стоимость"}
)

// Parse reads a supplier price sheet, dispatching on the file extension.
// Supported formats are CSV and XLSX.
func Parse(fileName string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %q, expected .csv or .xlsx", filepath.Ext(fileName))
	}
}

// ParseCSV parses a UTF-8 CSV price sheet. A UTF-8 BOM is stripped, the
// delimiter is sniffed between comma and semicolon, and the first row is
// treated as the header.
func ParseCSV(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)

	// Strip UTF-8 BOM
	if peek, err := br.Peek(3); err == nil && len(peek) == 3 &&
		peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	sample, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if !utf8.Valid(sample) {
		return nil, fmt.Errorf("file is not valid UTF-8")
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(sample)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}
		appendRow(result, record, cols)
	}
	return result, nil
}

// sniffDelimiter picks semicolon over comma when the first line carries
// more of them. Excel exports in many locales use semicolons.
func sniffDelimiter(sample []byte) rune {
	line := string(sample)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// columnMap holds the resolved column index per field, -1 when absent
type columnMap struct {
	sku   int
	name  int
	unit  int
	qty   int
	price int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{sku: -1, name: -1, unit: -1, qty: -1, price: -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.sku < 0 && matchesAny(key, skuHeaders):
			cols.sku = i
		case cols.name < 0 && matchesAny(key, nameHeaders):
			cols.name = i
		case cols.unit < 0 && matchesAny(key, unitHeaders):
			cols.unit = i
		case cols.qty < 0 && matchesAny(key, qtyHeaders):
			cols.qty = i
		case cols.price < 0 && matchesAny(key, priceHeaders):
			cols.price = i
		}
	}
	if cols.name < 0 {
		return cols, fmt.Errorf("no name column found in header %v", header)
	}
	if cols.price < 0 {
		return cols, fmt.Errorf("no price column found in header %v", header)
	}
	return cols, nil
}

func matchesAny(key string, candidates []string) bool {
	for _, c := range candidates {
		if key == c || strings.HasPrefix(key, c+" ") || strings.HasPrefix(key, c+"_") {
			return true
		}
	}
	return false
}

// appendRow converts one record into a ParsedRow, counting it as skipped
// when the name is empty or the price does not parse.
func appendRow(result *Result, record []string, cols columnMap) {
	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := get(cols.name)
	if name == "" {
		if !rowIsBlank(record) {
			result.Skipped++
		}
		return
	}

	price, err := parseNumber(get(cols.price))
	if err != nil {
		result.Skipped++
		return
	}

	// Quantity column is optional; a missing or empty cell means one unit
	quantity := decimal.NewFromInt(1)
	if raw := get(cols.qty); raw != "" {
		quantity, err = parseNumber(raw)
		if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
			result.Skipped++
			return
		}
	}

	result.Rows = append(result.Rows, ParsedRow{
		SKU:      get(cols.sku),
		Name:     name,
		Unit:     get(cols.unit),
		Quantity: quantity,
		Price:    price,
	})
}

func rowIsBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts "1 234,56", "1,234.56" and plain decimal forms
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if n.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative value %q", s)
	}
	return n, nil
}
