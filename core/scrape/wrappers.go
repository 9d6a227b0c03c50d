package scrape

import (
	"context"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/find"
)

// Named finders. Each builds its criteria before acquiring src, so bad
// arguments fail without a fetch.

func (s *Scraper) with1(ctx context.Context, src Source, build func(string) (find.Criteria, error), a string) ([]core.Record, error) {
	c, err := build(a)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, src, c)
}

func (s *Scraper) with2(ctx context.Context, src Source, build func(string, string) (find.Criteria, error), a, b string) ([]core.Record, error) {
	c, err := build(a, b)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, src, c)
}

// Select returns the elements matching a CSS selector.
func (s *Scraper) Select(ctx context.Context, src Source, selector string) ([]core.Record, error) {
	return s.with1(ctx, src, find.Selector, selector)
}

// Links returns the anchors carrying an href.
func (s *Scraper) Links(ctx context.Context, src Source) ([]core.Record, error) {
	return s.Find(ctx, src, find.Links())
}

// MediaLinks returns the elements carrying a src.
func (s *Scraper) MediaLinks(ctx context.Context, src Source) ([]core.Record, error) {
	return s.Find(ctx, src, find.Media())
}

// ElementByID returns at most one record: the first element with id.
func (s *Scraper) ElementByID(ctx context.Context, src Source, id string) ([]core.Record, error) {
	return s.with1(ctx, src, find.ID, id)
}

func (s *Scraper) ElementsByTag(ctx context.Context, src Source, tag string) ([]core.Record, error) {
	return s.with1(ctx, src, find.Tag, tag)
}

func (s *Scraper) ElementsByClass(ctx context.Context, src Source, className string) ([]core.Record, error) {
	return s.with1(ctx, src, find.Class, className)
}

func (s *Scraper) ElementsByAttribute(ctx context.Context, src Source, key string) ([]core.Record, error) {
	return s.with1(ctx, src, find.Attribute, key)
}

func (s *Scraper) ElementsByAttributeStarting(ctx context.Context, src Source, keyPrefix string) ([]core.Record, error) {
	return s.with1(ctx, src, find.AttributeStarting, keyPrefix)
}

func (s *Scraper) ElementsByAttributeValue(ctx context.Context, src Source, key, value string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValue, key, value)
}

func (s *Scraper) ElementsByAttributeValueNot(ctx context.Context, src Source, key, value string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValueNot, key, value)
}

func (s *Scraper) ElementsByAttributeValueStarting(ctx context.Context, src Source, key, valuePrefix string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValueStarting, key, valuePrefix)
}

func (s *Scraper) ElementsByAttributeValueEnding(ctx context.Context, src Source, key, valueSuffix string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValueEnding, key, valueSuffix)
}

func (s *Scraper) ElementsByAttributeValueContaining(ctx context.Context, src Source, key, match string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValueContaining, key, match)
}

func (s *Scraper) ElementsByAttributeValueMatching(ctx context.Context, src Source, key, regex string) ([]core.Record, error) {
	return s.with2(ctx, src, find.AttributeValueMatching, key, regex)
}

// ElementsByIndexEquals parses index as a base-10 integer.
func (s *Scraper) ElementsByIndexEquals(ctx context.Context, src Source, index string) ([]core.Record, error) {
	return s.with1(ctx, src, find.IndexEquals, index)
}

func (s *Scraper) ElementsByIndexGreaterThan(ctx context.Context, src Source, index string) ([]core.Record, error) {
	return s.with1(ctx, src, find.IndexGreaterThan, index)
}

func (s *Scraper) ElementsByIndexLessThan(ctx context.Context, src Source, index string) ([]core.Record, error) {
	return s.with1(ctx, src, find.IndexLessThan, index)
}

func (s *Scraper) ElementsContainingOwnText(ctx context.Context, src Source, searchText string) ([]core.Record, error) {
	return s.with1(ctx, src, find.ContainingOwnText, searchText)
}

func (s *Scraper) ElementsContainingText(ctx context.Context, src Source, searchText string) ([]core.Record, error) {
	return s.with1(ctx, src, find.ContainingText, searchText)
}

func (s *Scraper) ElementsMatchingOwnText(ctx context.Context, src Source, regex string) ([]core.Record, error) {
	return s.with1(ctx, src, find.MatchingOwnText, regex)
}

func (s *Scraper) ElementsMatchingText(ctx context.Context, src Source, regex string) ([]core.Record, error) {
	return s.with1(ctx, src, find.MatchingText, regex)
}

// AllElements returns every element of the document.
func (s *Scraper) AllElements(ctx context.Context, src Source) ([]core.Record, error) {
	return s.Find(ctx, src, find.All())
}

// ElementsByXPath returns the elements an XPath expression selects.
func (s *Scraper) ElementsByXPath(ctx context.Context, src Source, expr string) ([]core.Record, error) {
	return s.with1(ctx, src, find.XPath, expr)
}
