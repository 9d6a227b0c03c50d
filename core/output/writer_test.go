package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/render"
)

func sampleRecords() []core.Record {
	base := "http://a.test/"
	return []core.Record{
		{URL: &base, Text: "one", TagName: "a", ClassNames: []string{}, Attributes: map[string]string{"href": "/1"}},
		{URL: &base, Text: "two", TagName: "a", ClassNames: []string{}, Attributes: map[string]string{"href": "/2"}},
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/docs/intro", "example_com_docs_intro"},
		{"https://example.com/", "example_com"},
		{"http://a.test:8080/x.html", "a_test_8080_x_html"},
		{"fragment-1", "fragment_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filenameFromURL(tt.in), tt.in)
	}
}

func TestEncodeRecords_JSON(t *testing.T) {
	data, err := EncodeRecords(sampleRecords(), FormatJSON)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0]["text"])
	assert.Equal(t, "http://a.test/", got[0]["url"])
	assert.Contains(t, got[0], "outerHtml")
	assert.Contains(t, got[0], "classNames")
}

func TestEncodeRecords_EmptyJSONIsArray(t *testing.T) {
	data, err := EncodeRecords(nil, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = EncodeRecords(nil, FormatJSONL)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestEncodeRecords_JSONLOnePerLine(t *testing.T) {
	data, err := EncodeRecords(sampleRecords(), FormatJSONL)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}

func TestEncodeRecords_UnknownFormat(t *testing.T) {
	_, err := EncodeRecords(nil, "xml")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestWriter_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	w, err := New("", &stdout)
	require.NoError(t, err)

	path, err := w.WriteText("http://a.test/", core.NewText("hello"), core.OutputMeta{}, render.NewTextRenderer())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestWriter_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := New(dir, nil)
	require.NoError(t, err)

	path, err := w.WriteRecords("https://example.com/docs", sampleRecords(), FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_docs.jsonl"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}
