// Package dom turns a URL or an HTML fragment into a parsed Document and
// exposes the element accessors the finders and projector rely on.
//
// A Document is immutable once built and owned by the call that built it.
// Nothing in this module mutates a parsed tree.
package dom

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/pagequery/core"
)

// Document is the root of a parsed HTML tree plus its base URI.
type Document struct {
	root    *html.Node
	baseURI *string
}

// Root returns the document node. Callers must treat the tree as read-only.
func (d *Document) Root() *html.Node {
	return d.root
}

// BaseURI returns the URI relative links resolve against, or nil when the
// document was parsed from a fragment without an absolute <base href>.
func (d *Document) BaseURI() *string {
	return d.baseURI
}

// Source acquires documents over HTTP.
type Source struct {
	fetcher core.Fetcher
}

// NewSource creates a Source backed by the given fetcher.
func NewSource(fetcher core.Fetcher) *Source {
	return &Source{fetcher: fetcher}
}

// FromURL fetches rawURL and parses the body as a full document.
// Errors carry the core acquisition sentinels.
func (s *Source) FromURL(ctx context.Context, rawURL string) (*Document, error) {
	res, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Parse(res.HTML, res.URL)
}

// Raw fetches rawURL and returns the decoded body without parsing it.
func (s *Source) Raw(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	return s.fetcher.Fetch(ctx, rawURL)
}

// Parse parses a full HTML document with the given base URI.
func Parse(body string, baseURI string) (*Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(body), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc := &Document{root: root}
	if baseURI != "" {
		doc.baseURI = &baseURI
	}
	doc.applyBaseElement()
	return doc, nil
}

// FromFragment parses html as the contents of <body>. Missing or broken
// markup is tolerated; the result is always an html/head/body tree.
func FromFragment(fragment string) *Document {
	bodyContext := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragmentWithOptions(strings.NewReader(fragment), bodyContext, html.ParseOptionEnableScripting(false))
	if err != nil {
		// A strings.Reader cannot fail; keep the empty shell regardless.
		nodes = nil
	}

	root := &html.Node{Type: html.DocumentNode}
	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	for _, n := range nodes {
		body.AppendChild(n)
	}

	doc := &Document{root: root}
	doc.applyBaseElement()
	return doc
}

// applyBaseElement rebases the document on the first <base href> that
// resolves to an absolute URL.
func (d *Document) applyBaseElement() {
	base := firstElement(d.root, func(n *html.Node) bool {
		return n.DataAtom == atom.Base && HasAttr(n, "href")
	})
	if base == nil {
		return
	}
	href := strings.TrimSpace(AttrOr(base, "href", ""))
	if href == "" {
		return
	}

	ref, err := url.Parse(href)
	if err != nil {
		return
	}
	if d.baseURI != nil {
		current, err := url.Parse(*d.baseURI)
		if err != nil {
			return
		}
		ref = current.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return
	}
	resolved := ref.String()
	d.baseURI = &resolved
}

// firstElement returns the first element in document order matching pred.
func firstElement(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, pred); found != nil {
			return found
		}
	}
	return nil
}
