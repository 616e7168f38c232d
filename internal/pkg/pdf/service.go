// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
)

// ErrDisabled is returned when PDF export is switched off
var ErrDisabled = errors.New("pdf export is disabled")

// Service handles PDF generation
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// Enabled reports whether quotes can be rendered
func (s *Service) Enabled() bool {
	return s.config.PDF.Enabled
}

// QuoteData is the template input for a cart quote
type QuoteData struct {
	StoreName string
	Date      string
	Lines     []QuoteLine
	Quantity  int
	Total     string
}

// QuoteLine is one row of the quote table
type QuoteLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Discount  string
	Subtotal  string
}

// GenerateCartQuote renders the cart as a printable PDF quote
func (s *Service) GenerateCartQuote(items []cart.LineItem, totals cart.Totals) (*bytes.Buffer, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	htmlContent, err := s.GenerateQuoteHTML(items, totals)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.config.PDF.DPI)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// GenerateQuoteHTML renders the HTML that is fed to wkhtmltopdf
func (s *Service) GenerateQuoteHTML(items []cart.LineItem, totals cart.Totals) (string, error) {
	data := QuoteData{
		StoreName: s.config.App.Name,
		Date:      s.now().Format("January 2, 2006"),
		Lines:     make([]QuoteLine, 0, len(items)),
		Quantity:  totals.TotalQuantity,
		Total:     product.FormatThousands(totals.Total),
	}

	for _, item := range items {
		discount := "-"
		if item.Discount > 0 {
			discount = fmt.Sprintf("%g%%", item.Discount)
		}
		data.Lines = append(data.Lines, QuoteLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.FormatThousands(cart.PriceWithDiscount(item)),
			Discount:  discount,
			Subtotal:  product.FormatThousands(cart.ItemTotal(item)),
		})
	}

	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Quote</title>
    <style>
        body { font-family: Arial, sans-serif; color: #333; margin: 0; padding: 20px; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #333; padding-bottom: 12px; margin-bottom: 24px; }
        .title { font-size: 28px; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; }
        th { background-color: #f5f5f5; text-align: left; padding: 10px; border-bottom: 2px solid #ddd; }
        td { padding: 10px; border-bottom: 1px solid #eee; }
        .right { text-align: right; }
        .total { font-size: 18px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.StoreName}}</div>
        <div>{{.Date}}</div>
    </div>
    <table>
        <thead>
            <tr>
                <th>Product</th>
                <th class="right">Qty</th>
                <th class="right">Unit price</th>
                <th class="right">Discount</th>
                <th class="right">Subtotal</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="right">{{.Quantity}}</td>
                <td class="right">${{.UnitPrice}}</td>
                <td class="right">{{.Discount}}</td>
                <td class="right">${{.Subtotal}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5">Your cart is empty</td></tr>
            {{end}}
        </tbody>
        <tfoot>
            <tr>
                <td class="total">Total ({{.Quantity}} items)</td>
                <td colspan="4" class="right total">${{.Total}}</td>
            </tr>
        </tfoot>
    </table>
</body>
</html>`))
