// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
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

// GenerateLedgerReport renders an inventory ledger export as PDF
func (s *Service) GenerateLedgerReport(title string, entries []inventory.InventoryLog) (*bytes.Buffer, error) {
	data := ledgerReportData{
		Title:       title,
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
		Entries:     entries,
		StoreName:   s.config.App.StoreName,
		StoreEmail:  s.config.App.StoreEmail,
	}

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
func (s *Service) generateHTML(data ledgerReportData) (string, error) {
	tmpl := template.Must(template.New("ledger").Parse(ledgerTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ledgerReportData represents the data passed to the ledger template
type ledgerReportData struct {
	Title       string
	GeneratedAt string
	Entries     []inventory.InventoryLog
	StoreName   string
	StoreEmail  string
}

// Ledger report HTML template
const ledgerTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
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
        .store-info {
            flex: 1;
        }
        .report-info {
            text-align: right;
            flex: 1;
        }
        .report-title {
            font-size: 24px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .ledger-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .ledger-table th,
        .ledger-table td {
            border: 1px solid #ddd;
            padding: 8px 6px;
            text-align: left;
            font-size: 12px;
        }
        .ledger-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .ledger-table .num-col {
            text-align: right;
            width: 60px;
        }
        .type-in {
            color: #166534;
            font-weight: bold;
        }
        .type-out {
            color: #92400e;
            font-weight: bold;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-info">
            <h1>{{.StoreName}}</h1>
            <p>{{.StoreEmail}}</p>
        </div>
        <div class="report-info">
            <div class="report-title">{{.Title}}</div>
            <p><strong>Generated:</strong> {{.GeneratedAt}}</p>
            <p><strong>Entries:</strong> {{len .Entries}}</p>
        </div>
    </div>

    <table class="ledger-table">
        <thead>
            <tr>
                <th>Date</th>
                <th>Product</th>
                <th>Type</th>
                <th>Size</th>
                <th>Color</th>
                <th class="num-col">Qty</th>
                <th class="num-col">Before</th>
                <th class="num-col">After</th>
                <th>Reason</th>
                <th>Admin</th>
            </tr>
        </thead>
        <tbody>
            {{range .Entries}}
            <tr>
                <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
                <td><strong>{{.ProductName}}</strong><br><small>#{{.ProductID}}</small></td>
                <td class="{{if eq .MovementType "입고"}}type-in{{else}}type-out{{end}}">{{.MovementType}}</td>
                <td>{{.Size}}</td>
                <td>{{.Color}}</td>
                <td class="num-col">{{.Quantity}}</td>
                <td class="num-col">{{.BeforeQuantity}}</td>
                <td class="num-col">{{.AfterQuantity}}</td>
                <td>{{.Reason}}</td>
                <td>{{.AdminEmail}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="footer">
        <p>Inventory movement ledger — audit history, not current stock.</p>
    </div>
</body>
</html>
`
