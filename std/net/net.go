// Package net fetches assets over HTTP for the renderer.
package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent = "domshot/1.0 (compatible; Go)"

	// DefaultMaxBytes caps a single asset body.
	DefaultMaxBytes int64 = 32 << 20
)

// ErrTooLarge is returned when a body exceeds the client's limit.
var ErrTooLarge = errors.New("response body too large")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Code, e.URL)
}

// Client downloads asset bodies. The zero value uses http.DefaultClient
// without a size limit.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MaxBytes  int64
}

// NewClient returns a client with a 30s timeout and a body limit of
// maxBytes; maxBytes <= 0 selects DefaultMaxBytes.
func NewClient(maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		UserAgent: userAgent,
		MaxBytes:  maxBytes,
	}
}

var defaultClient = NewClient(DefaultMaxBytes)

// Fetch retrieves rawURL with the default client.
func Fetch(ctx context.Context, rawURL string) (body []byte, contentType string, err error) {
	return defaultClient.Fetch(ctx, rawURL)
}

// Fetch retrieves rawURL and returns its body and media type. Parameters
// such as charset are dropped from the content type.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	if c.MaxBytes > 0 && resp.ContentLength > c.MaxBytes {
		return nil, "", fmt.Errorf("%s: %d bytes: %w", rawURL, resp.ContentLength, ErrTooLarge)
	}

	var r io.Reader = resp.Body
	if c.MaxBytes > 0 {
		r = io.LimitReader(resp.Body, c.MaxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	if c.MaxBytes > 0 && int64(len(body)) > c.MaxBytes {
		return nil, "", fmt.Errorf("%s: over %d bytes: %w", rawURL, c.MaxBytes, ErrTooLarge)
	}
	return body, MediaType(resp.Header.Get("Content-Type")), nil
}

// MediaType lowercases a Content-Type header and strips its parameters.
// Unparseable values are returned trimmed.
func MediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.TrimSpace(header)
	}
	return mt
}

// ResolveURL resolves ref against base. Absolute refs and unparseable
// inputs come back unchanged.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL reports whether s has an http or https scheme.
func IsNetworkURL(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	if !ok {
		return false
	}
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}
