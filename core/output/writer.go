// Package output handles encoding and writing of PageQuery results.
// Without an output directory everything goes to stdout; with one, each
// source gets its own file named after the URL (e.g. example_com_docs.json).
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/pagequery/core"
)

// Record formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Writer writes rendered output to stdout or a directory.
type Writer struct {
	OutputDir string
	stdout    io.Writer
}

// New creates a Writer. An empty outputDir writes to stdout.
func New(outputDir string, stdout io.Writer) (*Writer, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	return &Writer{OutputDir: outputDir, stdout: stdout}, nil
}

// Write stores data for source. It returns the file path, or "" when
// written to stdout.
func (w *Writer) Write(source string, data []byte, ext string) (string, error) {
	if w.OutputDir == "" {
		if _, err := w.stdout.Write(data); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}
		return "", nil
	}

	path := filepath.Join(w.OutputDir, filenameFromURL(source)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteRecords encodes records in format and writes them for source.
func (w *Writer) WriteRecords(source string, records []core.Record, format string) (string, error) {
	data, err := EncodeRecords(records, format)
	if err != nil {
		return "", err
	}
	return w.Write(source, data, "."+format)
}

// WriteText renders text with r and writes it for source.
func (w *Writer) WriteText(source string, text core.TextResult, meta core.OutputMeta, r core.Renderer) (string, error) {
	data, err := r.Render(text, meta)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", r.Extension(), err)
	}
	return w.Write(source, data, r.Extension())
}

// EncodeRecords encodes records as an indented JSON array or as one JSON
// object per line. An empty result is "[]" in JSON and nothing in JSONL.
func EncodeRecords(records []core.Record, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []core.Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling records: %w", err)
		}
		return append(data, '\n'), nil
	case FormatJSONL:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for i := range records {
			if err := enc.Encode(&records[i]); err != nil {
				return nil, fmt.Errorf("marshaling record %d: %w", i, err)
			}
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown record format %q", core.ErrInvalidArgument, format)
	}
}

// filenameFromURL converts a source into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
