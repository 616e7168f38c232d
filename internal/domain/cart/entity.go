// internal/domain/cart/entity.go
package cart

import "github.com/your-org/storefront/internal/domain/product"

// LineItem is one product in the cart. Quantity is always at least 1; an item
// whose quantity would drop to 0 is removed instead.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Totals summarises the cart
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	Total         float64 `json:"total"`
}

func newLineItem(p product.Product, quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Discount: p.Discount,
		Image:    p.Image,
		Quantity: quantity,
	}
}

// PriceWithDiscount returns the unit price after the item's discount. No
// rounding is applied.
func PriceWithDiscount(item LineItem) float64 {
	if item.Discount > 0 {
		return item.Price * (1 - item.Discount/100)
	}
	return item.Price
}

// ItemTotal returns the discounted unit price times the quantity
func ItemTotal(item LineItem) float64 {
	return PriceWithDiscount(item) * float64(item.Quantity)
}
