package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/pkg/logger"
)

var testRules = Rules{MaxSize: 5 * 1024 * 1024, AllowedExtensions: []string{"jpg", "png"}}

func TestRulesCheck(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"ok", "photo.JPG", 1024, nil},
		{"too large", "photo.png", 5*1024*1024 + 1, ErrFileTooLarge},
		{"exactly max", "photo.png", 5 * 1024 * 1024, nil},
		{"bad extension", "doc.pdf", 10, ErrUnsupportedType},
		{"no extension", "photo", 10, ErrUnsupportedType},
		{"empty", "photo.png", 0, ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testRules.Check(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, "/uploads", testRules, logger.Discard())

	url, err := u.Upload(context.Background(), "Photo.PNG", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalUploaderRejectsOversizedBody(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, "/uploads", testRules, logger.Discard())

	_, err := u.Upload(context.Background(), "photo.png", 3, strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoteUploader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"status":200,"data":{"url":"https://i.host/abc.jpg"}}`))
	}))
	defer srv.Close()

	u := NewRemoteUploader(srv.URL+"/1/upload", "secret", testRules, srv.Client(), logger.Discard())
	url, err := u.Upload(context.Background(), "photo.jpg", 5, strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://i.host/abc.jpg", url)
}

func TestRemoteUploaderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"status":400,"error":{"message":"Invalid API v1 key."}}`))
	}))
	defer srv.Close()

	u := NewRemoteUploader(srv.URL, "bad", testRules, srv.Client(), logger.Discard())
	_, err := u.Upload(context.Background(), "photo.jpg", 5, strings.NewReader("bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API v1 key.")
}
