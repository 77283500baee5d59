// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// Service handles PDF generation
type Service struct{}

// NewService creates a new PDF service
func NewService() *Service {
	return &Service{}
}

// CompanyInfo carries the issuing company details printed on documents
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// InvoiceLine is one billed row on the invoice
type InvoiceLine struct {
	Description string
	Quantity    int
	Unit        string
	UnitPrice   string
	Total       string
}

// InvoiceData carries everything the invoice template needs. Amounts
// arrive pre-formatted so the template stays currency-agnostic.
type InvoiceData struct {
	Number       string
	IssuedAt     string
	DueAt        string
	Company      CompanyInfo
	ClientName   string
	ClientEmail  string
	ClientText   string
	SiteName     string
	TaskTitle    string
	Lines        []InvoiceLine
	Subtotal     string
	TaxLabel     string
	TaxAmount    string
	Total        string
	Notes        string
	ImageURLs    []string
}

// GenerateInvoicePDF renders the invoice HTML template and converts it
// to PDF via wkhtmltopdf
func (s *Service) GenerateInvoicePDF(data *InvoiceData) ([]byte, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}

	var html bytes.Buffer
	if err := tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(10)
	pdfg.MarginBottom.Set(10)
	pdfg.MarginLeft.Set(10)
	pdfg.MarginRight.Set(10)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
    body { font-family: Arial, sans-serif; font-size: 12px; color: #2d3b2d; margin: 0; padding: 24px; }
    .header { display: flex; justify-content: space-between; border-bottom: 2px solid #4a7c3f; padding-bottom: 16px; }
    .company h1 { margin: 0 0 4px 0; font-size: 20px; color: #4a7c3f; }
    .company p { margin: 1px 0; color: #666; }
    .meta { text-align: right; }
    .meta h2 { margin: 0 0 6px 0; font-size: 18px; }
    .meta p { margin: 2px 0; }
    .parties { display: flex; justify-content: space-between; margin: 24px 0; }
    .parties h3 { margin: 0 0 4px 0; font-size: 12px; text-transform: uppercase; color: #4a7c3f; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th { background: #4a7c3f; color: #fff; text-align: left; padding: 6px 8px; font-size: 11px; }
    td { padding: 6px 8px; border-bottom: 1px solid #ddd; }
    td.num, th.num { text-align: right; }
    .totals { margin-top: 16px; margin-left: auto; width: 240px; }
    .totals td { border: none; padding: 3px 8px; }
    .totals .grand td { border-top: 2px solid #4a7c3f; font-weight: bold; font-size: 14px; }
    .notes { margin-top: 24px; color: #666; }
    .images { margin-top: 24px; }
    .images img { max-width: 220px; margin: 4px; border: 1px solid #ddd; }
    .footer { margin-top: 40px; text-align: center; color: #999; font-size: 10px; }
</style>
</head>
<body>
    <div class="header">
        <div class="company">
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            {{if .Company.Phone}}<p>{{.Company.Phone}}</p>{{end}}
            {{if .Company.Email}}<p>{{.Company.Email}}</p>{{end}}
            {{if .Company.Website}}<p>{{.Company.Website}}</p>{{end}}
        </div>
        <div class="meta">
            <h2>INVOICE</h2>
            <p><strong>{{.Number}}</strong></p>
            <p>Issued: {{.IssuedAt}}</p>
            <p>Due: {{.DueAt}}</p>
        </div>
    </div>

    <div class="parties">
        <div>
            <h3>Billed To</h3>
            <p><strong>{{.ClientName}}</strong></p>
            {{if .ClientEmail}}<p>{{.ClientEmail}}</p>{{end}}
            {{if .ClientText}}<p>{{.ClientText}}</p>{{end}}
        </div>
        <div>
            <h3>Work Performed</h3>
            <p>{{.TaskTitle}}</p>
            {{if .SiteName}}<p>Site: {{.SiteName}}</p>{{end}}
        </div>
    </div>

    <table>
        <thead>
            <tr>
                <th>Description</th>
                <th class="num">Qty</th>
                <th>Unit</th>
                <th class="num">Unit Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Description}}</td>
                <td class="num">{{.Quantity}}</td>
                <td>{{.Unit}}</td>
                <td class="num">{{.UnitPrice}}</td>
                <td class="num">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
        <tr><td>{{.TaxLabel}}</td><td class="num">{{.TaxAmount}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
    </table>

    {{if .Notes}}<div class="notes"><strong>Notes:</strong> {{.Notes}}</div>{{end}}

    {{if .ImageURLs}}
    <div class="images">
        <h3>Work Photos</h3>
        {{range .ImageURLs}}<img src="{{.}}" alt="work photo">{{end}}
    </div>
    {{end}}

    <div class="footer">
        Thank you for your business. {{.Company.Name}}{{if .Company.Website}} | {{.Company.Website}}{{end}}
    </div>
</body>
</html>`
