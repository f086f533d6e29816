// Package console is a thin client for the Dify console API: the login,
// export, and import calls dfac needs and nothing more.
//
// The console authenticates with session cookies plus a CSRF token
// issued at login; the client keeps both for the life of one command
// invocation. There is no retry or backoff layer: a non-success status
// is surfaced verbatim and aborts the operation.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each console request.
const DefaultTimeout = 30 * time.Second

// csrfCookie is the cookie the console sets at login; its value must be
// echoed back in the X-Csrf-Token header on every subsequent request.
const csrfCookie = "csrf_token"

// Client talks to one Dify console deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes a custom HTTP client. A cookie jar is
// installed if the client has none, since the console session lives in
// cookies.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a console client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("console base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// Login authenticates with the console and captures the session cookies
// and CSRF token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.do(ctx, http.MethodPost, "/console/api/login", body)
	if err != nil {
		return fmt.Errorf("console login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(OpLogin, resp)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == csrfCookie {
			c.csrfToken = cookie.Value
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ExportDSL fetches an app's workflow DSL as YAML text.
func (c *Client) ExportDSL(ctx context.Context, appID string) (string, error) {
	endpoint := fmt.Sprintf("/console/api/apps/%s/export?include_secret=false", url.PathEscape(appID))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("console export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(OpExport, resp)
	}

	var out struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("console export: decode response: %w", err)
	}
	return out.Data, nil
}

// ImportDSL sends a workflow DSL back to the console. A non-empty appID
// updates that app in place; an empty appID asks the console to create
// a new app from the DSL.
func (c *Client) ImportDSL(ctx context.Context, dsl, appID string) error {
	body := map[string]string{
		"mode":         "yaml-content",
		"yaml_content": dsl,
	}
	if appID != "" {
		body["app_id"] = appID
	}

	resp, err := c.do(ctx, http.MethodPost, "/console/api/apps/imports", body)
	if err != nil {
		return fmt.Errorf("console import: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(OpImport, resp)
	}

	// The import endpoint reports per-request failure in the body even
	// on a 200.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("console import: read response: %w", err)
	}
	var out struct {
		Status string `json:"status"`
	}
	if json.Unmarshal(raw, &out) == nil && out.Status == "failed" {
		return &APIError{Op: OpImport, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

// do issues one JSON request with the session's CSRF header attached.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.csrfToken != "" {
		req.Header.Set("X-Csrf-Token", c.csrfToken)
	}

	return c.httpClient.Do(req)
}

// apiError drains a non-success response into an APIError.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	return &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
