// internal/domain/upload/upload.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

var (
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// Uploader stores an image and returns the public URL it is reachable at
type Uploader interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error)
}

// Rules limits what may be uploaded
type Rules struct {
	MaxSize           int64
	AllowedExtensions []string
}

// Check validates the name and size of a file before it is stored
func (r Rules) Check(filename string, size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if r.MaxSize > 0 && size > r.MaxSize {
		return fmt.Errorf("%w: maximum is %dMB", ErrFileTooLarge, r.MaxSize/(1024*1024))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range r.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
}

// IsValidationError reports whether err was produced by Rules.Check
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyFile)
}

// NewUploader builds the uploader selected by UPLOAD_PROVIDER
func NewUploader(cfg *config.Config, logger logrus.FieldLogger) Uploader {
	rules := Rules{
		MaxSize:           cfg.Upload.MaxSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}

	if cfg.Upload.Provider == "remote" {
		return NewRemoteUploader(cfg.Upload.RemoteURL, cfg.Upload.RemoteAPIKey, rules, &http.Client{Timeout: cfg.Catalog.Timeout}, logger)
	}
	return NewLocalUploader(cfg.Upload.LocalPath, cfg.Upload.PublicPath, rules, logger)
}
