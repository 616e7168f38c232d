// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/upload"
)

// UploadHandler handles image uploads from the admin panel
type UploadHandler struct {
	uploader upload.Uploader
	logger   logrus.FieldLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader upload.Uploader, logger logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadImage handles POST /admin/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "No image file provided", nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		if upload.IsValidationError(err) {
			badRequest(c, err.Error(), nil)
			return
		}
		h.logger.WithError(err).Error("Failed to upload image")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"data": gin.H{
			"url": url,
		},
	})
}
