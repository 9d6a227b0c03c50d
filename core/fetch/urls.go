// Package fetch: URL validation.
package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/pagequery/core"
)

// ParseURL validates rawURL as an absolute http or https URL with a host.
func ParseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty URL", core.ErrMalformedURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: %s (only http and https are supported)", core.ErrMalformedURL, rawURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s (missing host)", core.ErrMalformedURL, rawURL)
	}
	return parsed, nil
}
