// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

// ProductLookup fetches a single catalog product
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	products ProductLookup
	pdf      *pdf.Service
	logger   logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(products ProductLookup, pdfService *pdf.Service, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		products: products,
		pdf:      pdfService,
		logger:   logger,
	}
}

// CartResponse is the cart as returned by every cart endpoint
type CartResponse struct {
	Items  []cart.LineItem `json:"items"`
	Totals cart.Totals     `json:"totals"`
}

func cartResponse(m *cart.Manager) CartResponse {
	return CartResponse{Items: m.Items(), Totals: m.Totals()}
}

// AddToCartRequest adds a catalog product to the cart
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse(middleware.GetBrowser(c).Cart()),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	p, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("product_id", req.ProductID).Error("Failed to load product for cart")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load product"})
		return
	}

	m := middleware.GetBrowser(c).Cart()
	if err := m.AddToCart(c.Request.Context(), *p, quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			badRequest(c, err.Error(), nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse(m),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	m := middleware.GetBrowser(c).Cart()
	m.RemoveFromCart(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse(m),
	})
}

// IncreaseQuantity handles POST /cart/items/:id/increase
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	m := middleware.GetBrowser(c).Cart()
	m.IncreaseQuantity(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse(m),
	})
}

// DecreaseQuantity handles POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	m := middleware.GetBrowser(c).Cart()
	m.DecreaseQuantity(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse(m),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	m := middleware.GetBrowser(c).Cart()
	m.ClearCart(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartResponse(m),
	})
}

// Quote handles GET /cart/quote
func (h *CartHandler) Quote(c *gin.Context) {
	m := middleware.GetBrowser(c).Cart()

	buf, err := h.pdf.GenerateCartQuote(m.Items(), m.Totals())
	if err != nil {
		if errors.Is(err, pdf.ErrDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to generate cart quote")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quote"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="quote.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
