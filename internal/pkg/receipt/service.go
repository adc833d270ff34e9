// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/domain/checkout"
	"github.com/your-org/foodorder-backend/internal/pkg/currency"
)

// Service renders PDF receipts for succeeded payment attempts
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders a PDF receipt for a succeeded attempt
func (s *Service) Generate(attempt *checkout.Attempt) (*bytes.Buffer, error) {
	if attempt == nil || attempt.Status != checkout.StatusSucceeded {
		return nil, fmt.Errorf("receipt requires a succeeded payment attempt")
	}

	data := receiptData{
		StoreName: s.config.Payment.StoreName,
		OrderID:   attempt.OrderID,
		Method:    attempt.Method.Label,
		IssuedAt:  time.Now().Format("2 January 2006 15:04"),
		Total:     currency.Rupiah(attempt.Order.GrandTotal),
	}
	for _, line := range attempt.Order.Lines {
		data.Lines = append(data.Lines, receiptLine{
			Name:      fmt.Sprintf("%dx %s", line.Quantity, line.Name),
			LineTotal: currency.Rupiah(line.LineTotal),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// receiptData is the data passed to the receipt template
type receiptData struct {
	StoreName string
	OrderID   string
	Method    string
	IssuedAt  string
	Lines     []receiptLine
	Total     string
}

type receiptLine struct {
	Name      string
	LineTotal string
}
