// Package fetch implements the Fetcher interface.
// It performs a single HTTP GET per call with a fixed client identity,
// a fixed timeout and a configurable HTTP-error policy. It never retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/pagequery/core"
)

const (
	DefaultTimeout     = 500 * time.Millisecond
	DefaultUserAgent   = "Mozilla"
	DefaultMaxBodySize = 2 << 20 // 2 MiB
)

// Options configures an HTTPFetcher. It is fixed at construction.
type Options struct {
	UserAgent string
	// Timeout bounds connect, headers and body read together.
	Timeout time.Duration
	// IgnoreHTTPErrors returns non-2xx bodies instead of failing.
	IgnoreHTTPErrors bool
	// IgnoreContentType skips the HTML/XML content type check.
	IgnoreContentType bool
	// MaxBodySize truncates bodies beyond this many bytes. Zero means unlimited.
	MaxBodySize int64
}

// DefaultOptions returns the reference client behaviour.
func DefaultOptions() Options {
	return Options{
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// New creates an HTTPFetcher. Zero-valued options fall back to the defaults.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Options returns the options the fetcher was built with.
func (f *HTTPFetcher) Options() Options {
	return f.opts
}

// Fetch retrieves the body of the given URL, decoded to UTF-8.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w: %w", core.ErrMalformedURL, err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && !f.opts.IgnoreHTTPErrors {
		return nil, &core.HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !f.opts.IgnoreContentType && !isAllowedContentType(contentType) {
		return nil, fmt.Errorf("%w: %q for %s", core.ErrUnsupportedContentType, contentType, rawURL)
	}

	var body io.Reader = resp.Body
	if f.opts.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, f.opts.MaxBodySize)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, classify(rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	log.Debug().
		Str("url", finalURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	return &core.FetchResult{
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        decodeBody(raw, contentType),
	}, nil
}

// classify maps a transport error onto the acquisition error taxonomy.
func classify(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("fetching %s: %w: %w", rawURL, core.ErrTimeout, err)
	}
	return fmt.Errorf("fetching %s: %w: %w", rawURL, core.ErrNetwork, err)
}

// isAllowedContentType accepts text/*, XML and +xml types. A missing header is allowed.
func isAllowedContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/xml" ||
		strings.HasSuffix(mediaType, "+xml")
}
