package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LocalUploader writes images to a directory served by the HTTP server
type LocalUploader struct {
	dir        string
	publicPath string
	rules      Rules
	logger     logrus.FieldLogger
}

// NewLocalUploader stores files under dir and links them under publicPath
func NewLocalUploader(dir, publicPath string, rules Rules, logger logrus.FieldLogger) *LocalUploader {
	return &LocalUploader{
		dir:        dir,
		publicPath: publicPath,
		rules:      rules,
		logger:     logger,
	}
}

// Upload saves r under a random name and returns its public URL
func (u *LocalUploader) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	if err := u.rules.Check(filename, size); err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	fullPath := filepath.Join(u.dir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// one extra byte detects a body larger than the declared size
	written, err := io.Copy(dst, io.LimitReader(r, size+1))
	if err == nil && written > size {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	url := path.Join(u.publicPath, name)
	u.logger.WithFields(logrus.Fields{"file": name, "size": written}).Info("Image stored locally")
	return url, nil
}
