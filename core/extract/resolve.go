package extract

import (
	"net/url"
	"strings"
)

// ResolveURL resolves href against base. Without a usable base the raw
// href is returned unchanged, as it is when either side fails to parse.
func ResolveURL(base *string, href string) string {
	if base == nil || *base == "" {
		return href
	}
	baseURL, err := url.Parse(*base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
