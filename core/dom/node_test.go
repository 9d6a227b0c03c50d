package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func first(t *testing.T, fragment, tag string) *html.Node {
	t.Helper()
	found := elementsByTag(FromFragment(fragment).Root(), tag)
	require.NotEmpty(t, found, "no <%s> in %q", tag, fragment)
	return found[0]
}

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		tag      string
		want     string
	}{
		{"collapses whitespace", "<div>  Hello \n\t world  </div>", "div", "Hello world"},
		{"inline children join", "<p>Hello <b>bold</b>world</p>", "p", "Hello boldworld"},
		{"blocks separate words", "<div><p>One</p><p>Two</p></div>", "div", "One Two"},
		{"br separates words", "<p>One<br>Two</p>", "p", "One Two"},
		{"script is not text", "<div>a<script>var x;</script>b</div>", "div", "a b"},
		{"pre keeps whitespace", "<pre>a  b</pre>", "pre", "a  b"},
		{"empty", "<span></span>", "span", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(first(t, tt.fragment, tt.tag)))
		})
	}
}

func TestOwnText(t *testing.T) {
	n := first(t, "<p>Hello <b>there</b> friend<br>again</p>", "p")
	assert.Equal(t, "Hello friend again", OwnText(n))
}

func TestData(t *testing.T) {
	script := first(t, "<script>var a = 1 < 2;</script>", "script")
	assert.Equal(t, "var a = 1 < 2;", Data(script))

	div := first(t, "<div><!--note--><style>p{}</style><p>text</p></div>", "div")
	assert.Equal(t, "notep{}", Data(div))
}

func TestSiblingIndex(t *testing.T) {
	ul := first(t, "<ul> <li>a</li> text <li>b</li><li>c</li></ul>", "ul")
	var got []int
	for c := ul.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c) {
			got = append(got, SiblingIndex(c))
		}
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestClassNames(t *testing.T) {
	n := first(t, `<div class="  a b  a c "></div>`, "div")
	assert.Equal(t, "a b  a c", ClassName(n))
	assert.Equal(t, []string{"a", "b", "c"}, ClassNames(n))

	bare := first(t, `<div></div>`, "div")
	assert.Empty(t, ClassNames(bare))
	assert.NotNil(t, ClassNames(bare))
}

func TestAttributes(t *testing.T) {
	n := first(t, `<a HREF="/x" data-id="7">x</a>`, "a")
	assert.Equal(t, []Attribute{{Key: "href", Value: "/x"}, {Key: "data-id", Value: "7"}}, Attributes(n))

	v, ok := Attr(n, "Href")
	assert.True(t, ok)
	assert.Equal(t, "/x", v)
	assert.False(t, HasAttr(n, "src"))
	assert.Equal(t, "fallback", AttrOr(n, "src", "fallback"))
}

func TestHTMLSerialisation(t *testing.T) {
	n := first(t, `<div id="d"><b>x</b> &amp; y</div>`, "div")
	assert.Equal(t, `<b>x</b> &amp; y`, InnerHTML(n))
	assert.Equal(t, `<div id="d"><b>x</b> &amp; y</div>`, OuterHTML(n))

	script := first(t, "<script>if (a < b) {}</script>", "script")
	assert.Equal(t, "if (a < b) {}", InnerHTML(script))
}

func TestElements_IncludesScopeInDocumentOrder(t *testing.T) {
	div := first(t, "<div><p><i>1</i></p><span>2</span></div>", "div")
	var tags []string
	for _, n := range Elements(div) {
		tags = append(tags, TagName(n))
	}
	assert.Equal(t, []string{"div", "p", "i", "span"}, tags)
}

func TestNormaliseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormaliseWhitespace("  a \n b\t\tc "))
	assert.Equal(t, "", NormaliseWhitespace(" \n "))
}
