// Package backend implements every component repository over the
// product's same-origin REST API: one JSON client with cookie-carried
// credentials, shared across the analytics, reply-assistant, calendar, and
// generation pages.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Config configures the REST client.
type Config struct {
	BaseURL string
	// HTTPClient overrides the default client; a cookie jar is attached
	// when the override has none.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the product API. All requests ride the same cookie jar,
// matching the browser's session-cookie credential model.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a client for the API at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("backend: cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	return &Client{baseURL: cfg.BaseURL, client: httpClient}, nil
}

// APIError is a failed API call. Message comes from the server payload when
// one was present, so it is safe to surface to the user.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s: %s (status %d)", e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("backend: %s: status %d", e.Path, e.Status)
}

// UserMessage returns the server-provided message for display, or "" when
// the server sent none.
func (e *APIError) UserMessage() string { return e.Message }

// errorEnvelope is the server's error shape, sent both with error statuses
// and occasionally inside a 200 body.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (env errorEnvelope) text() string {
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

func (c *Client) get(ctx context.Context, path string, query url.Values, target any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, target)
}

func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	return c.do(ctx, http.MethodPost, path, nil, payload, target)
}

func (c *Client) put(ctx context.Context, path string, payload, target any) error {
	return c.do(ctx, http.MethodPut, path, nil, payload, target)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload for %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("backend: build request for %s: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response from %s: %w", path, err)
	}

	if resp.StatusCode >= 300 {
		var env errorEnvelope
		_ = json.Unmarshal(data, &env)
		return &APIError{Status: resp.StatusCode, Path: path, Message: env.text()}
	}

	// Some endpoints report failures inside a 200 body.
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		return &APIError{Status: resp.StatusCode, Path: path, Message: env.text()}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("backend: decode response from %s: %w", path, err)
	}
	return nil
}

// download fetches raw bytes from an absolute or API-relative URL.
func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	if u, err := url.Parse(rawURL); err == nil && !u.IsAbs() {
		rawURL = c.baseURL + rawURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: build download request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Path: rawURL}
	}
	return io.ReadAll(resp.Body)
}

// upload POSTs a single file as multipart form data.
func (c *Client) upload(ctx context.Context, path, field, filename string, content []byte, target any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("backend: multipart form for %s: %w", path, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("backend: multipart write for %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("backend: multipart close for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("backend: build upload request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read upload response from %s: %w", path, err)
	}
	if resp.StatusCode >= 300 {
		var env errorEnvelope
		_ = json.Unmarshal(data, &env)
		return &APIError{Status: resp.StatusCode, Path: path, Message: env.text()}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("backend: decode upload response from %s: %w", path, err)
	}
	return nil
}
