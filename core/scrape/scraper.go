// Package scrape is the query facade: it acquires a document, applies a
// finder and returns projected records, or renders the document as text.
//
// Each call owns the document it builds. A Scraper holds no per-call
// state and is safe for concurrent use.
package scrape

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/dom"
	"github.com/gaurav-prasanna/pagequery/core/extract"
	"github.com/gaurav-prasanna/pagequery/core/find"
	"github.com/gaurav-prasanna/pagequery/core/normalize"
	"github.com/gaurav-prasanna/pagequery/core/render"
)

// Scraper binds acquisition, matching, projection and rendering.
type Scraper struct {
	source    *dom.Source
	formatter *render.Formatter
	markdown  *normalize.MarkdownNormalizer
}

// New creates a Scraper that fetches URLs with fetcher.
func New(fetcher core.Fetcher) *Scraper {
	return &Scraper{
		source:    dom.NewSource(fetcher),
		formatter: render.NewFormatter(),
		markdown:  normalize.New(),
	}
}

// Acquire builds the document for src.
func (s *Scraper) Acquire(ctx context.Context, src Source) (*dom.Document, error) {
	if src.Mode == ModeHTML {
		return dom.FromFragment(src.Value), nil
	}
	return s.source.FromURL(ctx, src.Value)
}

// Find acquires src and projects every element matching c, in document order.
func (s *Scraper) Find(ctx context.Context, src Source, c find.Criteria) ([]core.Record, error) {
	doc, err := s.Acquire(ctx, src)
	if err != nil {
		return nil, err
	}
	nodes := find.Find(doc.Root(), c)
	log.Debug().Str("source", src.String()).Stringer("criteria", c).Int("matches", len(nodes)).Msg("find")
	return extract.ProjectAll(doc.BaseURI(), nodes), nil
}

// Run dispatches the registered operation name with positional args.
func (s *Scraper) Run(ctx context.Context, src Source, name string, args []string) ([]core.Record, error) {
	op, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	c, err := op.Build(args)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, src, c)
}

// PlainText renders src as plain text. With a selector only the matching
// elements are rendered, concatenated without a separator.
//
// For URL sources every failure yields core.EmptyText and a nil error.
// Fragment sources report invalid selectors.
func (s *Scraper) PlainText(ctx context.Context, src Source, selector string) (core.TextResult, error) {
	_, nodes, err := s.scope(ctx, src, selector)
	if err != nil {
		if src.Mode == ModeURL {
			log.Warn().Err(err).Str("url", src.Value).Msg("plain text failed, returning empty text")
			return core.EmptyText, nil
		}
		return core.EmptyText, err
	}
	return core.NewText(s.formatter.PlainTextAll(nodes)), nil
}

// Markdown renders src, or the elements matching selector, as Markdown.
// Links resolve against the document's base URI. Errors propagate.
func (s *Scraper) Markdown(ctx context.Context, src Source, selector string) (core.TextResult, error) {
	doc, nodes, err := s.scope(ctx, src, selector)
	if err != nil {
		return core.EmptyText, err
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(dom.OuterHTML(n))
	}
	if b.Len() == 0 {
		return core.EmptyText, nil
	}
	md, err := s.markdown.Normalize(b.String(), doc.BaseURI())
	if err != nil {
		return core.EmptyText, err
	}
	return core.NewText(strings.TrimSpace(md)), nil
}

// Document returns the fetched body of rawURL unparsed.
func (s *Scraper) Document(ctx context.Context, rawURL string) (core.TextResult, error) {
	res, err := s.source.Raw(ctx, rawURL)
	if err != nil {
		return core.EmptyText, err
	}
	return core.NewText(res.HTML), nil
}

// scope acquires src and returns the nodes to render: the elements
// matching selector, or the document node when selector is blank.
func (s *Scraper) scope(ctx context.Context, src Source, selector string) (*dom.Document, []*html.Node, error) {
	var c find.Criteria
	scoped := strings.TrimSpace(selector) != ""
	if scoped {
		var err error
		if c, err = find.Selector(selector); err != nil {
			return nil, nil, err
		}
	}

	doc, err := s.Acquire(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	if !scoped {
		return doc, []*html.Node{doc.Root()}, nil
	}
	return doc, find.Find(doc.Root(), c), nil
}
