// Package find: matching.
package find

import (
	"slices"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagequery/core/dom"
)

// Find returns the elements under scope (scope included) that satisfy c,
// in document order. ID criteria yield at most one element.
func Find(scope *html.Node, c Criteria) []*html.Node {
	switch c.kind {
	case KindID:
		var found *html.Node
		dom.Walk(scope, func(n *html.Node) {
			if found == nil && c.Matches(n) {
				found = n
			}
		})
		if found == nil {
			return nil
		}
		return []*html.Node{found}
	case KindXPath:
		return queryXPath(scope, c)
	}

	var matched []*html.Node
	dom.Walk(scope, func(n *html.Node) {
		if c.Matches(n) {
			matched = append(matched, n)
		}
	})
	return matched
}

// Matches reports whether the element n satisfies c on its own.
// XPath criteria depend on context and never match a lone element.
func (c Criteria) Matches(n *html.Node) bool {
	if !dom.IsElement(n) {
		return false
	}

	switch c.kind {
	case KindSelector:
		return c.sel.Match(n)
	case KindID:
		return dom.ID(n) == c.value
	case KindTag:
		return strings.EqualFold(dom.TagName(n), c.value)
	case KindClass:
		return hasClass(n, c.value)
	case KindAttribute:
		return dom.HasAttr(n, c.key)
	case KindAttributeStarting:
		for _, a := range dom.Attributes(n) {
			if strings.HasPrefix(strings.ToLower(a.Key), c.key) {
				return true
			}
		}
		return false
	case KindAttributeValue:
		v, ok := dom.Attr(n, c.key)
		return ok && strings.EqualFold(strings.TrimSpace(v), c.value)
	case KindAttributeValueNot:
		v, ok := dom.Attr(n, c.key)
		return !ok || !strings.EqualFold(strings.TrimSpace(v), c.value)
	case KindAttributeValueStarting:
		v, ok := dom.Attr(n, c.key)
		return ok && strings.HasPrefix(strings.ToLower(v), c.value)
	case KindAttributeValueEnding:
		v, ok := dom.Attr(n, c.key)
		return ok && strings.HasSuffix(strings.ToLower(v), c.value)
	case KindAttributeValueContaining:
		v, ok := dom.Attr(n, c.key)
		return ok && strings.Contains(strings.ToLower(v), c.value)
	case KindAttributeValueMatching:
		v, ok := dom.Attr(n, c.key)
		return ok && c.re.MatchString(v)
	case KindIndexEquals:
		return dom.SiblingIndex(n) == c.index
	case KindIndexGreaterThan:
		return dom.SiblingIndex(n) > c.index
	case KindIndexLessThan:
		return dom.SiblingIndex(n) < c.index
	case KindContainingOwnText:
		return strings.Contains(strings.ToLower(dom.OwnText(n)), c.value)
	case KindContainingText:
		return strings.Contains(strings.ToLower(dom.Text(n)), c.value)
	case KindMatchingOwnText:
		return c.re.MatchString(dom.OwnText(n))
	case KindMatchingText:
		return c.re.MatchString(dom.Text(n))
	case KindAll:
		return true
	}
	return false
}

func hasClass(n *html.Node, className string) bool {
	for _, token := range strings.Fields(dom.AttrOr(n, "class", "")) {
		if strings.EqualFold(token, className) {
			return true
		}
	}
	return false
}

// queryXPath evaluates an XPath criteria and keeps real element results
// (attribute and text selections are dropped), deduplicated, in document order.
func queryXPath(scope *html.Node, c Criteria) []*html.Node {
	nodes := htmlquery.QuerySelectorAll(scope, c.expr)

	seen := make(map[*html.Node]bool, len(nodes))
	var elements []*html.Node
	for _, n := range nodes {
		// Attribute selections come back as detached synthetic elements.
		if !dom.IsElement(n) || n.Parent == nil || seen[n] {
			continue
		}
		seen[n] = true
		elements = append(elements, n)
	}

	order := documentOrder(scope)
	slices.SortStableFunc(elements, func(a, b *html.Node) int {
		return order[a] - order[b]
	})
	return elements
}

// documentOrder numbers every element of the tree containing n.
func documentOrder(n *html.Node) map[*html.Node]int {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	order := make(map[*html.Node]int)
	dom.Walk(root, func(el *html.Node) {
		order[el] = len(order)
	})
	return order
}
