// Package extract projects matched elements into flat records.
// The projection copies every field out of the tree, so records stay
// valid after the document is discarded.
package extract

import (
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/dom"
)

// AbsHrefKey is the synthesised attribute holding the resolved href.
const AbsHrefKey = "abs:href"

// Project converts element n into a record. baseURI is the document's
// base URI and may be nil.
func Project(baseURI *string, n *html.Node) core.Record {
	attrs := dom.Attributes(n)
	attributes := make(map[string]string, len(attrs)+1)
	for _, a := range attrs {
		// The first occurrence of a key wins, as in the parsed tree.
		if _, dup := attributes[a.Key]; !dup {
			attributes[a.Key] = a.Value
		}
	}
	if href, ok := attributes["href"]; ok {
		attributes[AbsHrefKey] = ResolveURL(baseURI, href)
	}

	var url *string
	if baseURI != nil {
		u := *baseURI
		url = &u
	}

	return core.Record{
		URL:        url,
		Text:       dom.Text(n),
		HTML:       dom.InnerHTML(n),
		OuterHTML:  dom.OuterHTML(n),
		Data:       dom.Data(n),
		TagName:    dom.TagName(n),
		ID:         dom.ID(n),
		ClassName:  dom.ClassName(n),
		ClassNames: dom.ClassNames(n),
		Attributes: attributes,
	}
}

// ProjectAll projects nodes in order.
func ProjectAll(baseURI *string, nodes []*html.Node) []core.Record {
	records := make([]core.Record, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, Project(baseURI, n))
	}
	return records
}
