// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		DueDate:       time.Now().AddDate(0, 0, 30).Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
			Website: s.config.App.CompanyWebsite,
		},
	}
	if o.EstimatedDelivery != nil {
		data.EstimatedDelivery = o.EstimatedDelivery.Format("January 2, 2006")
	}
	data.ReturnWindowDays = s.config.Commerce.ReturnWindowDays
	data.WarrantyMonths = s.config.Commerce.WarrantyMonths

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("%s %.2f", data.Order.Currency, float64(cents)/100)
		},
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber     string       `json:"invoice_number"`
	InvoiceDate       string       `json:"invoice_date"`
	DueDate           string       `json:"due_date"`
	EstimatedDelivery string       `json:"estimated_delivery"`
	ReturnWindowDays  int          `json:"return_window_days"`
	WarrantyMonths    int          `json:"warranty_months"`
	Order             *order.Order `json:"order"`
	Company           CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info { flex: 1; }
        .invoice-info { text-align: right; flex: 1; }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #7a5c3e;
            margin-bottom: 10px;
        }
        .addresses {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
        }
        .address-block {
            flex: 1;
            margin-right: 20px;
        }
        .address-block h4 {
            margin-bottom: 6px;
            color: #7a5c3e;
        }
        .address-block pre {
            font-family: inherit;
            margin: 0;
            white-space: pre-wrap;
        }
        table.items {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        table.items th {
            background: #f5f0ea;
            text-align: left;
            padding: 10px;
            border-bottom: 2px solid #ddd;
        }
        table.items td {
            padding: 10px;
            border-bottom: 1px solid #eee;
            vertical-align: top;
        }
        .configuration {
            font-size: 11px;
            color: #777;
            margin-top: 4px;
        }
        .totals {
            width: 300px;
            margin-left: auto;
        }
        .totals td { padding: 5px 10px; }
        .totals .grand td {
            font-weight: bold;
            font-size: 16px;
            border-top: 2px solid #333;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 11px;
            color: #888;
        }
        .right { text-align: right; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h2>{{.Company.Name}}</h2>
            <p>{{.Company.Address}}<br>
            {{.Company.Phone}}<br>
            {{.Company.Email}}<br>
            {{.Company.Website}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>{{.InvoiceNumber}}</strong><br>
            Order: {{.Order.OrderNumber}}<br>
            Date: {{.InvoiceDate}}<br>
            Due: {{.DueDate}}</p>
        </div>
    </div>

    <div class="addresses">
        <div class="address-block">
            <h4>Ship To</h4>
            {{with .Order.ShippingAddress}}<pre>{{.Format}}</pre>{{end}}
        </div>
        <div class="address-block">
            <h4>Bill To</h4>
            {{with .Order.BillingAddress}}<pre>{{.Format}}</pre>{{end}}
        </div>
    </div>

    <table class="items">
        <thead>
            <tr>
                <th>Item</th>
                <th>SKU</th>
                <th class="right">Qty</th>
                <th class="right">Unit Price</th>
                <th class="right">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>
                    {{.ProductName}}
                    {{if .ConfigurationDisplay}}<div class="configuration">{{.ConfigurationDisplay}}</div>{{end}}
                </td>
                <td>{{.ProductSKU}}</td>
                <td class="right">{{.Quantity}}</td>
                <td class="right">{{money .UnitPrice}}</td>
                <td class="right">{{money .TotalPrice}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="right">{{money .Order.Subtotal}}</td></tr>
        <tr><td>Shipping</td><td class="right">{{money .Order.ShippingCost}}</td></tr>
        <tr><td>Tax</td><td class="right">{{money .Order.TaxAmount}}</td></tr>
        <tr class="grand"><td>Total</td><td class="right">{{money .Order.Total}}</td></tr>
    </table>

    {{if .EstimatedDelivery}}
    <p>Every piece is made to order. Estimated delivery: <strong>{{.EstimatedDelivery}}</strong>.</p>
    {{end}}

    <div class="footer">
        <p>Thank you for your order with {{.Company.Name}}. Questions? Contact {{.Company.Email}}.</p>
        {{if .ReturnWindowDays}}<p>Returns accepted within {{.ReturnWindowDays}} days of delivery for stock finishes.
        All pieces carry a {{.WarrantyMonths}}-month workmanship warranty.</p>{{end}}
    </div>
</body>
</html>
`
