package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// OCRClient sends a stored file to the external OCR service and returns the
// recognized text. Used for image uploads and as a fallback for scanned PDFs.
type OCRClient struct {
	baseURL string
	client  *http.Client
}

func NewOCRClient(baseURL string, timeout time.Duration) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *OCRClient) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *OCRClient) Extract(ctx context.Context, filePath string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrOCRUnavailable
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file for OCR: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrOCRUnavailable, resp.StatusCode)
	}

	var result struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("ocr: %s", result.Error)
	}
	return result.Text, nil
}
