// Package core defines the shared types and stage interfaces for PageQuery.
// Acquisition, matching, projection and rendering each live in their own
// package under core/ and exchange only the values declared here.
package core

import "context"

// FetchResult holds the decoded body and response metadata from a fetch.
type FetchResult struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// Record is the flat projection of one matched element. It copies every
// field by value and never references the document it came from.
type Record struct {
	URL        *string           `json:"url"`
	Text       string            `json:"text"`
	HTML       string            `json:"html"`
	OuterHTML  string            `json:"outerHtml"`
	Data       string            `json:"data"`
	TagName    string            `json:"tagName"`
	ID         string            `json:"id"`
	ClassName  string            `json:"className"`
	ClassNames []string          `json:"classNames"`
	Attributes map[string]string `json:"attributes"`
}

// TextResult is the single value produced by text operations.
// A nil Value is the empty sentinel.
type TextResult struct {
	Value *string `json:"value"`
}

// EmptyText is the sentinel for "produced, but nothing there".
var EmptyText = TextResult{}

// NewText wraps s, normalising the empty string to EmptyText.
func NewText(s string) TextResult {
	if s == "" {
		return EmptyText
	}
	return TextResult{Value: &s}
}

// IsEmpty reports whether t is the empty sentinel.
func (t TextResult) IsEmpty() bool {
	return t.Value == nil
}

// String returns the text, or "" for the sentinel.
func (t TextResult) String() string {
	if t.Value == nil {
		return ""
	}
	return *t.Value
}

// OutputMeta describes where a result came from, for output encoders.
type OutputMeta struct {
	Source    string `json:"source"`
	Operation string `json:"operation"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Fetcher retrieves a decoded HTML body from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer encodes a text result into a final output format.
type Renderer interface {
	Render(text TextResult, meta OutputMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".txt", ".pdf").
	Extension() string
}
