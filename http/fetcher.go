// Package http provides the resilient request executor used by remote
// service clients and a page fetcher that streams content under a byte ceiling.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/webclip"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies page requests.
const DefaultUserAgent = "webclip/1.0 (+https://github.com/fwojciec/webclip)"

// chunkSize is the read size between cancellation checks.
const chunkSize = 32 << 10

// Ensure Fetcher implements webclip.Fetcher at compile time.
var _ webclip.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content over HTTP without executing JavaScript.
// Content beyond the byte ceiling is discarded.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBytes sets the byte ceiling.
// Defaults to webclip.MaxPageBytes (5 MiB) if not specified.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		maxBytes:  webclip.MaxPageBytes,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the content of the given URL.
//
// A declared Content-Length above the ceiling fails with HTTP 413 before any
// body bytes are read. An undeclared length is read until the ceiling and
// silently truncated there.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", webclip.Errorf(webclip.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", webclip.Errorf(webclip.ENETWORK, "fetching %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &webclip.HTTPError{Status: resp.StatusCode, Body: webclip.Snippet(string(excerpt), maxErrorBody)}
	}

	if resp.ContentLength > f.maxBytes {
		return "", &webclip.HTTPError{
			Status: http.StatusRequestEntityTooLarge,
			Body:   fmt.Sprintf("content length %d exceeds limit of %d bytes", resp.ContentLength, f.maxBytes),
		}
	}

	body, err := f.readLimited(ctx, resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// readLimited reads r in chunks until EOF or the ceiling, checking ctx
// between chunks.
func (f *Fetcher) readLimited(ctx context.Context, r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, chunkSize)
	for int64(len(out)) < f.maxBytes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := r.Read(buf)
		if remaining := f.maxBytes - int64(len(out)); int64(n) > remaining {
			n = int(remaining)
		}
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, webclip.Errorf(webclip.ENETWORK, "reading body: %v", err)
		}
	}
	return out, nil
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return webclip.Errorf(webclip.EINVALID, "invalid URL %q", rawURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return webclip.Errorf(webclip.EINVALID, "invalid URL %q: only absolute http(s) URLs are supported", rawURL)
	}
	return nil
}
