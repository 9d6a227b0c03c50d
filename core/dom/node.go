// Package dom: element accessors.
// Text accessors follow browser-like whitespace rules: runs of whitespace
// collapse to one space, block boundaries and <br> separate words, and
// script/style contents count as data rather than text.
package dom

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute is one key/value pair in source order.
type Attribute struct {
	Key   string
	Value string
}

// blockTags break text flow.
var blockTags = map[atom.Atom]bool{
	atom.Html: true, atom.Head: true, atom.Body: true, atom.Frameset: true,
	atom.Script: true, atom.Noscript: true, atom.Style: true, atom.Meta: true,
	atom.Link: true, atom.Title: true, atom.Frame: true, atom.Noframes: true,
	atom.Section: true, atom.Nav: true, atom.Aside: true, atom.Hgroup: true,
	atom.Header: true, atom.Footer: true, atom.P: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Pre: true, atom.Div: true,
	atom.Blockquote: true, atom.Hr: true, atom.Address: true, atom.Figure: true,
	atom.Figcaption: true, atom.Form: true, atom.Fieldset: true, atom.Dl: true,
	atom.Dt: true, atom.Dd: true, atom.Li: true, atom.Table: true,
	atom.Caption: true, atom.Thead: true, atom.Tfoot: true, atom.Tbody: true,
	atom.Colgroup: true, atom.Col: true, atom.Tr: true, atom.Th: true,
	atom.Td: true, atom.Video: true, atom.Audio: true, atom.Canvas: true,
	atom.Details: true, atom.Menu: true, atom.Plaintext: true,
	atom.Template: true, atom.Article: true, atom.Main: true, atom.Svg: true,
	atom.Math: true, atom.Center: true, atom.Dir: true, atom.Summary: true,
	atom.Listing: true,
}

// rawTextTags hold unescaped character data.
var rawTextTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Xmp: true, atom.Iframe: true,
	atom.Noembed: true, atom.Noframes: true, atom.Plaintext: true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockTags[n.DataAtom]
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Elements returns every element under scope in document order,
// starting with scope itself when it is an element.
func Elements(scope *html.Node) []*html.Node {
	var out []*html.Node
	Walk(scope, func(n *html.Node) {
		out = append(out, n)
	})
	return out
}

// Walk calls fn for every element under scope in document order,
// including scope itself when it is an element.
func Walk(scope *html.Node, fn func(*html.Node)) {
	if scope == nil {
		return
	}
	if scope.Type == html.ElementNode {
		fn(scope)
	}
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// TagName returns the element's tag name.
func TagName(n *html.Node) string {
	return n.Data
}

// Attributes returns the element's attributes in source order.
// Namespaced keys are reported as "ns:key".
func Attributes(n *html.Node) []Attribute {
	attrs := make([]Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		attrs = append(attrs, Attribute{Key: attrKey(a), Value: a.Val})
	}
	return attrs
}

// AttrOr returns the value of key (case-insensitive), or def when absent.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// Attr returns the value of key (case-insensitive) and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(attrKey(a), key) {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the element carries key (case-insensitive).
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

func attrKey(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// ID returns the id attribute, or "".
func ID(n *html.Node) string {
	return AttrOr(n, "id", "")
}

// ClassName returns the trimmed class attribute.
func ClassName(n *html.Node) string {
	return strings.TrimSpace(AttrOr(n, "class", ""))
}

// ClassNames returns the distinct class tokens in order of appearance.
func ClassNames(n *html.Node) []string {
	fields := strings.Fields(ClassName(n))
	names := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		names = append(names, f)
	}
	return names
}

// SiblingIndex returns n's 0-based position among its parent's element children.
func SiblingIndex(n *html.Node) int {
	idx := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}

// Text returns the normalised text of n and all of its descendants.
func Text(n *html.Node) string {
	var acc textAccumulator
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch cur.Type {
		case html.TextNode:
			if !isDataContainer(cur.Parent) {
				acc.add(cur.Data, preservesWhitespace(cur))
			}
		case html.ElementNode:
			if (IsBlock(cur) || cur.DataAtom == atom.Br) && acc.size() > 0 {
				acc.space()
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if IsBlock(cur) && cur.NextSibling != nil && cur.NextSibling.Type == html.TextNode {
			acc.space()
		}
	}
	walk(n)
	return strings.TrimSpace(acc.String())
}

// OwnText returns the normalised text of n's direct text children only.
func OwnText(n *html.Node) string {
	var acc textAccumulator
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if !isDataContainer(n) {
				acc.add(c.Data, preservesWhitespace(c))
			}
		case html.ElementNode:
			if c.DataAtom == atom.Br {
				acc.space()
			}
		}
	}
	return strings.TrimSpace(acc.String())
}

// Data returns the combined script/style contents and comments under n.
func Data(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if isDataContainer(n) {
				b.WriteString(c.Data)
			}
		case html.CommentNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			b.WriteString(Data(c))
		}
	}
	return b.String()
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	out, err := goquery.OuterHtml(goquery.NewDocumentFromNode(n).Selection)
	if err != nil {
		return ""
	}
	return out
}

// InnerHTML renders n's children. Raw text containers are written verbatim.
func InnerHTML(n *html.Node) string {
	if n.Type == html.ElementNode && rawTextTags[n.DataAtom] {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String()
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// NormaliseWhitespace collapses whitespace runs to single spaces and trims.
func NormaliseWhitespace(s string) string {
	var acc textAccumulator
	acc.add(s, false)
	return strings.TrimSpace(acc.String())
}

func isDataContainer(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style)
}

// preservesWhitespace reports whether a text node sits inside <pre> or <textarea>.
func preservesWhitespace(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.DataAtom == atom.Pre || p.DataAtom == atom.Textarea) {
			return true
		}
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

// textAccumulator builds normalised text, tracking trailing whitespace.
type textAccumulator struct {
	b         strings.Builder
	lastSpace bool
}

func (a *textAccumulator) add(s string, preserve bool) {
	for _, r := range s {
		if isSpace(r) {
			if preserve {
				a.b.WriteRune(r)
				a.lastSpace = true
				continue
			}
			if a.b.Len() > 0 && !a.lastSpace {
				a.b.WriteByte(' ')
				a.lastSpace = true
			}
			continue
		}
		a.b.WriteRune(r)
		a.lastSpace = false
	}
}

// space writes a single separator unless one is already pending.
func (a *textAccumulator) space() {
	if a.b.Len() > 0 && !a.lastSpace {
		a.b.WriteByte(' ')
		a.lastSpace = true
	}
}

func (a *textAccumulator) size() int {
	return a.b.Len()
}

func (a *textAccumulator) String() string {
	return a.b.String()
}
