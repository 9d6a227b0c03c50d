// Package normalize converts HTML into Markdown for the markdown
// operation. Relative links and images are resolved against the
// document's base URI when one is known.
package normalize

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts serialised HTML into Markdown. baseURI may be nil.
func (n *MarkdownNormalizer) Normalize(html string, baseURI *string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if baseURI != nil && *baseURI != "" {
		opts = append(opts, converter.WithDomain(*baseURI))
	}
	markdown, err := htmltomarkdown.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
