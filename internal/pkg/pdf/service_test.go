package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
)

func newTestService(enabled bool) *Service {
	s := NewService(&config.Config{
		App: config.AppConfig{Name: "Storefront"},
		PDF: config.PDFConfig{Enabled: enabled, DPI: 150},
	})
	s.now = func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestGenerateQuoteHTML(t *testing.T) {
	s := newTestService(true)
	items := []cart.LineItem{
		{ID: "1", Name: "Lamp <deluxe>", Price: 1500, Discount: 10, Quantity: 2},
		{ID: "2", Name: "Chair", Price: 200, Quantity: 1},
	}

	html, err := s.GenerateQuoteHTML(items, cart.Totals{ItemCount: 2, TotalQuantity: 3, Total: 2900})
	require.NoError(t, err)

	assert.Contains(t, html, "March 5, 2024")
	assert.Contains(t, html, "Lamp &lt;deluxe&gt;")
	assert.Contains(t, html, "$1.350")
	assert.Contains(t, html, "$2.700")
	assert.Contains(t, html, "10%")
	assert.Contains(t, html, "Total (3 items)")
	assert.Contains(t, html, "$2.900")
}

func TestGenerateQuoteHTMLEmptyCart(t *testing.T) {
	html, err := newTestService(true).GenerateQuoteHTML(nil, cart.Totals{})
	require.NoError(t, err)
	assert.Contains(t, html, "Your cart is empty")
}

func TestGenerateCartQuoteDisabled(t *testing.T) {
	_, err := newTestService(false).GenerateCartQuote(nil, cart.Totals{})
	assert.ErrorIs(t, err, ErrDisabled)
}
