// Package resource loads the bytes behind asset URIs.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	stdnet "domshot/std/net"
)

// ErrNotFound reports a URI that no fetcher could resolve.
var ErrNotFound = errors.New("resource not found")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, string, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	return f(ctx, uri)
}

// DefaultFetcher fetches resources over HTTP/HTTPS, resolving relative URIs
// against a base URL.
type DefaultFetcher struct {
	baseURL string

	// Client downloads network URIs; nil uses the std/net default.
	Client *stdnet.Client
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base URL.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if !stdnet.IsNetworkURL(uri) && f.baseURL != "" {
		resolved = stdnet.ResolveURL(f.baseURL, uri)
	}
	if !stdnet.IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("cannot fetch non-network URI %s: %w", resolved, ErrNotFound)
	}
	fetch := stdnet.Fetch
	if f.Client != nil {
		fetch = f.Client.Fetch
	}
	body, ct, err := fetch(ctx, resolved)
	var se *stdnet.StatusError
	if errors.As(err, &se) && se.Code == 404 {
		return nil, "", fmt.Errorf("%s: %w", resolved, ErrNotFound)
	}
	return body, ct, err
}

// FileFetcher reads resources from a directory. file:// URIs and
// relative paths resolve inside Root; paths escaping it are refused.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(_ context.Context, uri string) ([]byte, string, error) {
	p := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", uri, err)
		}
		p = u.Path
	} else if strings.Contains(uri, "://") {
		return nil, "", fmt.Errorf("%s: %w", uri, ErrNotFound)
	}
	p = filepath.Clean(filepath.FromSlash(p))
	if f.Root != "" {
		rel := strings.TrimPrefix(p, string(filepath.Separator))
		if !filepath.IsLocal(rel) {
			return nil, "", fmt.Errorf("%s escapes %s: %w", uri, f.Root, ErrNotFound)
		}
		p = filepath.Join(f.Root, rel)
	}
	body, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("%s: %w", uri, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", p, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(p)), nil
}

// MultiFetcher tries each fetcher in turn until one does not report
// ErrNotFound.
type MultiFetcher []Fetcher

func (m MultiFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	for _, f := range m {
		body, ct, err := f.Fetch(ctx, uri)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return body, ct, err
	}
	return nil, "", fmt.Errorf("%s: %w", uri, ErrNotFound)
}
