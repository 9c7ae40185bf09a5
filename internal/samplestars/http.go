package samplestars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// PostCSV posts body as a raw text/csv request.
func (c *HTTPClient) PostCSV(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	return c.client.Do(req)
}

// PostFile posts body as the "file" field of a multipart form.
func (c *HTTPClient) PostFile(ctx context.Context, url, filename string, body []byte) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(body); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body. Non-200 responses are
// returned as errors carrying the body text.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// classifyCatalog posts the catalog to /classify and decodes the response.
func classifyCatalog(ctx context.Context, client *HTTPClient, baseURL string, catalog []byte) (*ClassifyResponse, error) {
	resp, err := client.PostCSV(ctx, baseURL+"/classify", catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to post catalog: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	var out ClassifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}
	return &out, nil
}

// renderCatalog posts the catalog to /diagram and returns the image bytes.
func renderCatalog(ctx context.Context, client *HTTPClient, baseURL, format string, catalog []byte) ([]byte, string, error) {
	url := baseURL + "/diagram"
	if format != "" {
		url += "?format=" + format
	}
	resp, err := client.PostFile(ctx, url, "stars.csv", catalog)
	if err != nil {
		return nil, "", fmt.Errorf("failed to post catalog: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}
