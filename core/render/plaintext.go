// Package render turns element trees into text and encodes text results
// into output formats (plain text, Markdown, JSON, PDF).
//
// This file implements the plain-text formatter: block structure becomes
// line breaks and invisible content is dropped. Whitespace inside a line
// collapses to single spaces outside pre and textarea.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/pagequery/core/dom"
)

// invisibleTags never contribute text.
var invisibleTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Iframe:   true,
	atom.Object:   true,
}

// paragraphTags are followed by a blank line.
var paragraphTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Blockquote: true,
}

// Formatter flattens element trees into readable plain text.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PlainText renders n and its descendants. n may be a document node.
func (f *Formatter) PlainText(n *html.Node) string {
	var b strings.Builder
	collectText(&b, n, false)
	return normalizeLines(b.String())
}

// PlainTextAll renders each node and concatenates the results with no
// separator between them.
func (f *Formatter) PlainTextAll(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(f.PlainText(n))
	}
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		if inPre {
			writePreserved(b, n.Data)
			return
		}
		b.WriteString(strings.Map(func(r rune) rune {
			switch r {
			case '\t', '\r', '\n', '\f':
				return ' '
			}
			return r
		}, n.Data))
		return
	case html.ElementNode:
		if invisibleTags[n.DataAtom] || dom.HasAttr(n, "hidden") {
			return
		}
		switch n.DataAtom {
		case atom.Br, atom.Hr:
			b.WriteString("\n")
			return
		case atom.Pre, atom.Textarea:
			inPre = true
		}
		if dom.IsBlock(n) && !isCell(n) {
			endLines(b, 1)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type != html.ElementNode {
		return
	}
	switch {
	case paragraphTags[n.DataAtom]:
		endLines(b, 2)
	case isCell(n):
		b.WriteString(" ")
	case dom.IsBlock(n):
		endLines(b, 1)
	}
}

// preMark flags a line whose whitespace is kept. The parser turns NUL in
// text into U+FFFD, so it never occurs in content.
const preMark = "\x00"

// writePreserved writes pre-formatted text, marking each line it starts.
func writePreserved(b *strings.Builder, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		if b.Len() == 0 || strings.HasSuffix(b.String(), "\n") {
			b.WriteString(preMark)
		}
		b.WriteString(strings.TrimSuffix(line, "\r"))
	}
}

// endLines ends the builder with at least n newlines, counting those
// already trailing it behind spaces. Nothing is written at the start.
func endLines(b *strings.Builder, n int) {
	s := b.String()
	if s == "" {
		return
	}
	have := strings.Count(s[len(strings.TrimRight(s, " \n")):], "\n")
	for ; have < n; have++ {
		b.WriteString("\n")
	}
}

func isCell(n *html.Node) bool {
	return n.DataAtom == atom.Td || n.DataAtom == atom.Th
}

// normalizeLines trims every line, collapses inner whitespace runs and
// keeps at most one consecutive blank line. Pre-formatted lines are kept
// verbatim.
func normalizeLines(s string) string {
	type line struct {
		text string
		kept bool
	}
	var out []line
	blank := func() bool { return len(out) == 0 || (!out[len(out)-1].kept && out[len(out)-1].text == "") }

	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, preMark) {
			out = append(out, line{text: strings.TrimRight(strings.ReplaceAll(l, preMark, ""), " \t"), kept: true})
			continue
		}
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			if !blank() {
				out = append(out, line{})
			}
			continue
		}
		out = append(out, line{text: strings.Join(strings.Fields(trimmed), " ")})
	}
	for len(out) > 0 && out[len(out)-1].text == "" {
		out = out[:len(out)-1]
	}

	texts := make([]string, len(out))
	for i, l := range out {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}
