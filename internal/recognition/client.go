// Package recognition is the client for the remote Recognition API:
// the backend service that performs the actual face matching and owns
// all durable state (users, registrations, attendance records).
package recognition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// defaultTimeout bounds every API call. The service performs face
// matching per request, so the bound is generous.
const defaultTimeout = 30 * time.Second

// Client represents a client for the Recognition API.
type Client struct {
	baseURL    string
	parsedURL  *url.URL
	token      string
	captureDir string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a bearer token sent with every request. The reference
// backend does not require one; deployments behind a gateway do.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the default request timeout. Zero disables the
// bound and falls back to the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCaptureDir enables saving raw API responses to a directory for
// debugging and test fixtures.
func WithCaptureDir(dir string) Option {
	return func(c *Client) { c.captureDir = dir }
}

// NewClient creates a Recognition API client for the given base URL
// (e.g. http://localhost:5001).
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	apiURL := strings.TrimRight(rawURL, "/") + "/api"
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid recognition API URL: %w", err)
	}

	c := &Client{
		baseURL:    apiURL,
		parsedURL:  parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.captureDir != "" {
		if err := os.MkdirAll(c.captureDir, 0750); err != nil {
			return nil, fmt.Errorf("could not create capture directory: %w", err)
		}
	}
	return c, nil
}

// URL returns the resolved API base URL.
func (c *Client) URL() string { return c.baseURL }

// resolveURL builds a full URL from the base API URL and the given
// path segments. If the last segment contains a query string, it is
// split so JoinPath only receives the path portion.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// authorize adds the bearer token header when one is configured.
func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// captureResponse saves the API response body to a file if capturing
// is enabled. The filename is generated from the endpoint name.
func (c *Client) captureResponse(endpoint string, body []byte) {
	if c.captureDir == "" {
		return
	}

	filename := strings.ReplaceAll(endpoint, "/", "_")
	filename = strings.TrimPrefix(filename, "_")
	timestamp := time.Now().Format("20060102_150405")
	filename = fmt.Sprintf("%s_%s.json", filename, timestamp)

	path := filepath.Join(c.captureDir, filename)

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err == nil {
		body = prettyJSON.Bytes()
	}

	// Capturing is best effort - log and continue on write errors.
	if err := os.WriteFile(path, body, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture response to %s: %v\n", path, err)
	}
}

// readErrorBody reads the response body for error messages. Returns an
// empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(body)
}
