// internal/domain/product/entity.go
package product

import (
	"strconv"
	"strings"
)

// Product is a catalog entry as served by the catalog API
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Subcategory string  `json:"subcategory,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Section     string  `json:"section,omitempty"`
	Image       string  `json:"image,omitempty"`
	Stock       int     `json:"stock,omitempty"`
}

// Category groups products on the storefront
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// HasDiscount reports whether the product is on sale
func (p *Product) HasDiscount() bool {
	return p.Discount > 0
}

// Filter returns the products in category; an empty category returns all of them
func Filter(products []Product, category string) []Product {
	if category == "" {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FormatThousands renders the integer part of n with '.' thousands separators
// and keeps up to two decimals after a ',' when n is not whole.
func FormatThousands(n float64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	formatted := strconv.FormatFloat(n, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(formatted, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if fracPart != "00" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}

	return b.String()
}
