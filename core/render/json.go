// Package render: JSON renderer.
// Wraps a text result with its origin metadata. The empty sentinel
// encodes as "value": null.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/pagequery/core"
)

// JSONRenderer produces the JSON envelope for text results.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type textEnvelope struct {
	core.OutputMeta
	Value *string `json:"value"`
}

// Render encodes text and meta as indented JSON.
func (r *JSONRenderer) Render(text core.TextResult, meta core.OutputMeta) ([]byte, error) {
	data, err := json.MarshalIndent(textEnvelope{OutputMeta: meta, Value: text.Value}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
