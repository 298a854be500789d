// Package backend talks to the external similarity search service.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

const (
	DefaultBaseURL = "http://localhost:8001"
	DefaultTimeout = 30 * time.Second

	fileField = "file"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Retries is the number of transport-level retries on connection errors
	// and 5xx responses. Zero means a single attempt.
	Retries   int
	UserAgent string
}

// Client issues the three lookup calls of the search backend.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *retryablehttp.Client
}

// NewClient creates a Client. Missing fields fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: rc,
	}
}

// StatusError represents a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// SearchByFile submits raw image bytes.
func (c *Client) SearchByFile(ctx context.Context, filename string, data []byte) (*domain.SearchResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("failed to create form file: %w", err))
	}
	if _, err := part.Write(data); err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("failed to write form file: %w", err))
	}
	if err := mw.Close(); err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("failed to close multipart body: %w", err))
	}

	return c.do(ctx, http.MethodPost, "/file", body.Bytes(), mw.FormDataContentType())
}

// SearchByID looks up an item id. The random sentinel is passed through
// this path and resolved server-side.
func (c *Client) SearchByID(ctx context.Context, id string) (*domain.SearchResponse, error) {
	return c.do(ctx, http.MethodGet, "/ord_id/"+url.PathEscape(id), nil, "")
}

// SearchByTxID looks up a transaction id.
func (c *Client) SearchByTxID(ctx context.Context, txID string) (*domain.SearchResponse, error) {
	return c.do(ctx, http.MethodGet, "/tx_id/"+url.PathEscape(txID), nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) (*domain.SearchResponse, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, rawBody)
	if err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.RequestFailed(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.RequestFailed(&StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		})
	}

	parsed, err := ParseResponse(respBody)
	if err != nil {
		return nil, domain.RequestFailed(err)
	}
	return parsed, nil
}
