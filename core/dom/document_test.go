package dom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagequery/core"
)

type stubFetcher struct {
	result *core.FetchResult
	err    error
}

func (s stubFetcher) Fetch(_ context.Context, _ string) (*core.FetchResult, error) {
	return s.result, s.err
}

func elementsByTag(scope *html.Node, tag string) []*html.Node {
	var out []*html.Node
	Walk(scope, func(n *html.Node) {
		if n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

func TestFromFragment_ToleratesUnterminatedMarkup(t *testing.T) {
	doc := FromFragment("<p>unterminated")

	paragraphs := elementsByTag(doc.Root(), "p")
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "unterminated", Text(paragraphs[0]))
	assert.Nil(t, doc.BaseURI())
}

func TestFromFragment_AlwaysBuildsHTMLHeadBody(t *testing.T) {
	for _, fragment := range []string{"", "plain text", "<div><span>x</div>", "</p></p>"} {
		doc := FromFragment(fragment)
		assert.Len(t, elementsByTag(doc.Root(), "html"), 1, fragment)
		assert.Len(t, elementsByTag(doc.Root(), "head"), 1, fragment)
		assert.Len(t, elementsByTag(doc.Root(), "body"), 1, fragment)
	}
}

func TestFromFragment_KeepsHeadOnlyTagsInBody(t *testing.T) {
	doc := FromFragment("<title>T</title><p>x</p>")
	body := elementsByTag(doc.Root(), "body")[0]
	assert.Len(t, elementsByTag(body, "title"), 1)
}

func TestFromFragment_AbsoluteBaseElementSetsBaseURI(t *testing.T) {
	doc := FromFragment(`<base href="http://a.test/dir/"><a href="x">x</a>`)
	require.NotNil(t, doc.BaseURI())
	assert.Equal(t, "http://a.test/dir/", *doc.BaseURI())

	relative := FromFragment(`<base href="/dir/"><a href="x">x</a>`)
	assert.Nil(t, relative.BaseURI())
}

func TestParse_BaseElementResolvesAgainstDocumentURL(t *testing.T) {
	doc, err := Parse(`<html><head><base href="/docs/"></head><body></body></html>`, "http://a.test/index.html")
	require.NoError(t, err)
	require.NotNil(t, doc.BaseURI())
	assert.Equal(t, "http://a.test/docs/", *doc.BaseURI())
}

func TestSource_FromURLUsesFinalURLAsBase(t *testing.T) {
	src := NewSource(stubFetcher{result: &core.FetchResult{
		URL:  "http://a.test/final",
		HTML: "<p>hi</p>",
	}})

	doc, err := src.FromURL(context.Background(), "http://a.test/start")
	require.NoError(t, err)
	require.NotNil(t, doc.BaseURI())
	assert.Equal(t, "http://a.test/final", *doc.BaseURI())
}

func TestSource_FromURLPropagatesFetchErrors(t *testing.T) {
	src := NewSource(stubFetcher{err: core.ErrTimeout})
	_, err := src.FromURL(context.Background(), "http://a.test/")
	assert.ErrorIs(t, err, core.ErrTimeout)
}

func TestSource_Raw(t *testing.T) {
	src := NewSource(stubFetcher{result: &core.FetchResult{URL: "http://a.test/", HTML: "raw body"}})
	res, err := src.Raw(context.Background(), "http://a.test/")
	require.NoError(t, err)
	assert.Equal(t, "raw body", res.HTML)
}
