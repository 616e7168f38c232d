package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// RemoteUploader posts images to an imgbb compatible hosting API
type RemoteUploader struct {
	endpoint   string
	apiKey     string
	rules      Rules
	httpClient *http.Client
	logger     logrus.FieldLogger
}

type remoteResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewRemoteUploader creates an uploader for endpoint
func NewRemoteUploader(endpoint, apiKey string, rules Rules, httpClient *http.Client, logger logrus.FieldLogger) *RemoteUploader {
	return &RemoteUploader{
		endpoint:   endpoint,
		apiKey:     apiKey,
		rules:      rules,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Upload sends r as the "image" form field and returns the hosted URL
func (u *RemoteUploader) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	if err := u.rules.Check(filename, size); err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(r, size)); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint, err := url.Parse(u.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid upload endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", u.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || !result.Success || result.Data.URL == "" {
		msg := result.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("image host rejected upload: %s", msg)
	}

	u.logger.WithField("url", result.Data.URL).Info("Image uploaded to remote host")
	return result.Data.URL, nil
}
