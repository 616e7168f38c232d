// internal/interfaces/http/handlers/product.go
package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/upload"
)

// Catalog is the product and category API
type Catalog interface {
	ProductLookup
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, p *product.Product) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, p *product.Product) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]product.Category, error)
}

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	catalog  Catalog
	uploader upload.Uploader
	logger   logrus.FieldLogger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog Catalog, uploader upload.Uploader, logger logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		uploader: uploader,
		logger:   logger,
	}
}

// ProductForm is the admin product form, sent as JSON or multipart with an "image" file
type ProductForm struct {
	Name        string  `json:"name" form:"name"`
	Price       float64 `json:"price" form:"price"`
	Discount    float64 `json:"discount" form:"discount"`
	Description string  `json:"description" form:"description"`
	Category    string  `json:"category" form:"category"`
	Subcategory string  `json:"subcategory" form:"subcategory"`
	Brand       string  `json:"brand" form:"brand"`
	Section     string  `json:"section" form:"section"`
	Image       string  `json:"image" form:"image_url"`
	Stock       int     `json:"stock" form:"stock"`
}

func (f ProductForm) toProduct() product.Product {
	return product.Product{
		Name:        f.Name,
		Price:       f.Price,
		Discount:    f.Discount,
		Description: f.Description,
		Category:    f.Category,
		Subcategory: f.Subcategory,
		Brand:       f.Brand,
		Section:     f.Section,
		Image:       f.Image,
		Stock:       f.Stock,
	}
}

// GetProducts handles GET /products, optionally filtered by ?category=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.catalogError(c, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product.Filter(products, c.Query("category")),
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.catalogError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": p,
	})
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.catalogError(c, err, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": categories,
	})
}

// AdminCreateProduct handles POST /admin/products
func (h *ProductHandler) AdminCreateProduct(c *gin.Context) {
	p, ok := h.bindProduct(c, true)
	if !ok {
		return
	}

	created, err := h.catalog.CreateProduct(c.Request.Context(), p)
	if err != nil {
		h.catalogError(c, err, "Failed to create product")
		return
	}

	h.logger.WithField("product_id", created.ID).Info("Product created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    created,
	})
}

// AdminUpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) AdminUpdateProduct(c *gin.Context) {
	p, ok := h.bindProduct(c, false)
	if !ok {
		return
	}

	id := c.Param("id")
	p.ID = id
	updated, err := h.catalog.UpdateProduct(c.Request.Context(), id, p)
	if err != nil {
		h.catalogError(c, err, "Failed to update product")
		return
	}

	h.logger.WithField("product_id", id).Info("Product updated")
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    updated,
	})
}

// AdminDeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) AdminDeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.catalogError(c, err, "Failed to delete product")
		return
	}

	h.logger.WithField("product_id", id).Info("Product deleted")
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// bindProduct decodes and validates the form, uploading the image if one was sent
func (h *ProductHandler) bindProduct(c *gin.Context, creating bool) (*product.Product, bool) {
	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return nil, false
	}
	p := form.toProduct()

	var meta *product.ImageMeta
	header, err := c.FormFile("image")
	if err == nil {
		meta = &product.ImageMeta{Filename: header.Filename, Size: header.Size}
	}

	if problems := product.Validate(&p, meta, creating && p.Image == ""); len(problems) > 0 {
		badRequest(c, "Validation failed", problems)
		return nil, false
	}

	if header != nil {
		url, err := h.store(c.Request.Context(), header)
		if err != nil {
			if upload.IsValidationError(err) {
				badRequest(c, "Validation failed", gin.H{"image": err.Error()})
				return nil, false
			}
			h.logger.WithError(err).Error("Failed to upload product image")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload image"})
			return nil, false
		}
		p.Image = url
	}

	return &p, true
}

func (h *ProductHandler) store(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.uploader.Upload(ctx, header.Filename, header.Size, file)
}

func (h *ProductHandler) catalogError(c *gin.Context, err error, message string) {
	if errors.Is(err, product.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.logger.WithError(err).Error(message)
	c.JSON(http.StatusBadGateway, gin.H{"error": message})
}
