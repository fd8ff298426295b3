package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/furniflow/backend/internal/domain/deal"
)

// DocumentData carries everything a document template needs
type DocumentData struct {
	Kind           deal.DocumentKind
	Number         string
	Date           time.Time
	CompanyName    string
	CompanyDetails string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	DealNumber     string
	DealTitle      string
	Amount         decimal.Decimal
	Currency       string
	Notes          string
}

var documentTitles = map[deal.DocumentKind]string{
	deal.DocumentKindQuote:    "Commercial Quote",
	deal.DocumentKindInvoice:  "Invoice",
	deal.DocumentKindContract: "Supply Contract",
}

// TemplateEngine renders document HTML from the built-in templates
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the built-in document templates
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl := template.New("documents").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal, currency string) string {
			return d.StringFixed(2) + " " + currency
		},
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
	})

	tmpl, err := tmpl.Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// RenderHTML produces the HTML for a document
func (e *TemplateEngine) RenderHTML(data DocumentData) (string, error) {
	if !data.Kind.IsValid() {
		return "", fmt.Errorf("unknown document kind %q", data.Kind)
	}

	view := struct {
		DocumentData
		Title string
	}{
		DocumentData: data,
		Title:        documentTitles[data.Kind],
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render document %s: %w", data.Number, err)
	}
	return buf.String(), nil
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Number}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a1a; font-size: 13px; margin: 0; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #2c3e50; padding-bottom: 12px; }
  .company { font-size: 16px; font-weight: bold; }
  .details { color: #666; white-space: pre-line; font-size: 11px; }
  h1 { font-size: 20px; margin: 24px 0 4px; }
  .number { color: #666; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #ddd; }
  th { background: #f5f6f8; font-weight: 600; }
  .amount-row td { font-weight: bold; border-top: 2px solid #2c3e50; }
  .notes { margin-top: 28px; color: #444; }
  .signatures { display: flex; justify-content: space-between; margin-top: 60px; }
  .signature { width: 40%; border-top: 1px solid #999; padding-top: 6px; color: #666; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="company">{{.CompanyName}}</div>
      <div class="details">{{.CompanyDetails}}</div>
    </div>
    <div class="details">{{date .Date}}</div>
  </div>

  <h1>{{.Title}}</h1>
  <div class="number">No. {{.Number}}{{if .DealNumber}} &middot; Deal {{.DealNumber}}{{end}}</div>

  <table>
    <tr><th>Customer</th><td>{{.CustomerName}}</td></tr>
    {{if .CustomerEmail}}<tr><th>Email</th><td>{{.CustomerEmail}}</td></tr>{{end}}
    {{if .CustomerPhone}}<tr><th>Phone</th><td>{{.CustomerPhone}}</td></tr>{{end}}
    {{if .DealTitle}}<tr><th>Subject</th><td>{{.DealTitle}}</td></tr>{{end}}
    <tr class="amount-row"><td>Total</td><td>{{money .Amount .Currency}}</td></tr>
  </table>

  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}

  {{if eq .Kind "contract"}}
  <div class="signatures">
    <div class="signature">Supplier</div>
    <div class="signature">Customer</div>
  </div>
  {{end}}
</body>
</html>`
