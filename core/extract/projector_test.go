package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagequery/core/dom"
)

func ptr(s string) *string { return &s }

func element(t *testing.T, fragment, tag string) *html.Node {
	t.Helper()
	var found *html.Node
	dom.Walk(dom.FromFragment(fragment).Root(), func(n *html.Node) {
		if found == nil && n.Data == tag {
			found = n
		}
	})
	require.NotNil(t, found, "no <%s> in %q", tag, fragment)
	return found
}

func TestProject_ResolvesHrefAgainstBase(t *testing.T) {
	rec := Project(ptr("http://a.test/"), element(t, `<a href="/x">go</a>`, "a"))

	assert.Equal(t, "http://a.test/x", rec.Attributes[AbsHrefKey])
	assert.Equal(t, "/x", rec.Attributes["href"])
	require.NotNil(t, rec.URL)
	assert.Equal(t, "http://a.test/", *rec.URL)
}

func TestProject_NeverSynthesisesAbsSrc(t *testing.T) {
	rec := Project(ptr("http://a.test/"), element(t, `<img src="i.png" alt="x">`, "img"))

	assert.Equal(t, map[string]string{"src": "i.png", "alt": "x"}, rec.Attributes)
	assert.NotContains(t, rec.Attributes, "abs:src")
	assert.NotContains(t, rec.Attributes, AbsHrefKey)
}

func TestProject_NilBasePassesHrefThrough(t *testing.T) {
	rec := Project(nil, element(t, `<a href="../rel">r</a>`, "a"))

	assert.Equal(t, "../rel", rec.Attributes[AbsHrefKey])
	assert.Nil(t, rec.URL)
}

func TestProject_AbsoluteHrefUnchanged(t *testing.T) {
	rec := Project(ptr("http://a.test/dir/"), element(t, `<a href="http://www.index.hu">Index1</a>`, "a"))
	assert.Equal(t, "http://www.index.hu", rec.Attributes[AbsHrefKey])
}

func TestProject_Fields(t *testing.T) {
	n := element(t, `<div id="d" class="x y x"><b>Hi</b> there<script>var s;</script></div>`, "div")
	rec := Project(nil, n)

	assert.Equal(t, "div", rec.TagName)
	assert.Equal(t, "d", rec.ID)
	assert.Equal(t, "x y x", rec.ClassName)
	assert.Equal(t, []string{"x", "y"}, rec.ClassNames)
	assert.Equal(t, "Hi there", rec.Text)
	assert.Equal(t, "var s;", rec.Data)
	assert.Equal(t, `<b>Hi</b> there<script>var s;</script>`, rec.HTML)
	assert.Equal(t, `<div id="d" class="x y x"><b>Hi</b> there<script>var s;</script></div>`, rec.OuterHTML)
}

func TestProject_EmptyCollectionsAreNotNil(t *testing.T) {
	rec := Project(nil, element(t, `<span></span>`, "span"))
	assert.NotNil(t, rec.ClassNames)
	assert.NotNil(t, rec.Attributes)
	assert.Empty(t, rec.Attributes)
}

func TestProjectAll_KeepsOrder(t *testing.T) {
	root := dom.FromFragment(`<a href="1">a</a><a href="2">b</a>`).Root()
	var anchors []*html.Node
	dom.Walk(root, func(n *html.Node) {
		if n.Data == "a" {
			anchors = append(anchors, n)
		}
	})
	recs := ProjectAll(ptr("http://a.test/"), anchors)
	require.Len(t, recs, 2)
	assert.Equal(t, "http://a.test/1", recs[0].Attributes[AbsHrefKey])
	assert.Equal(t, "http://a.test/2", recs[1].Attributes[AbsHrefKey])
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base *string
		href string
		want string
	}{
		{ptr("http://a.test/dir/page"), "other", "http://a.test/dir/other"},
		{ptr("http://a.test/dir/page"), "../up", "http://a.test/up"},
		{ptr("http://a.test/"), "https://b.test/x", "https://b.test/x"},
		{ptr("http://a.test/"), "//c.test/y", "http://c.test/y"},
		{ptr("http://a.test/p"), "#frag", "http://a.test/p#frag"},
		{ptr(""), "/x", "/x"},
		{nil, "/x", "/x"},
		{ptr("http://a.test/"), "http://[::1", "http://[::1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.base, tt.href), tt.href)
	}
}
