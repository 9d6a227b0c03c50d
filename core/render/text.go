package render

import (
	"github.com/gaurav-prasanna/pagequery/core"
)

// TextRenderer writes the text as-is. The empty sentinel renders as
// zero bytes.
type TextRenderer struct {
	ext string
}

// NewTextRenderer creates a renderer for plain text output.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{ext: ".txt"}
}

// NewMarkdownRenderer creates a passthrough renderer for Markdown results.
func NewMarkdownRenderer() *TextRenderer {
	return &TextRenderer{ext: ".md"}
}

// Render returns the text bytes followed by a newline when non-empty.
func (r *TextRenderer) Render(text core.TextResult, _ core.OutputMeta) ([]byte, error) {
	if text.IsEmpty() {
		return nil, nil
	}
	return append([]byte(text.String()), '\n'), nil
}

// Extension returns the file extension for this output.
func (r *TextRenderer) Extension() string {
	return r.ext
}
