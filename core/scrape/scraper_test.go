package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/extract"
	"github.com/gaurav-prasanna/pagequery/core/fetch"
)

const scenario = `<html><head><title>Scenario</title></head><body>` +
	`<a href="http://www.index.hu">Index1</a><a href="http://www.index2.hu">Index2</a>` +
	`<div id="box" class="card"><p>Some <b>text</b></p><img src="/logo.png"></div>` +
	`</body></html>`

type scenarioServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newScenarioServer(t *testing.T) *scenarioServer {
	t.Helper()
	s := &scenarioServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(scenario))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newScraper(opts fetch.Options) *Scraper {
	return New(fetch.New(opts))
}

func TestLinks_ScenarioDocument(t *testing.T) {
	srv := newScenarioServer(t)
	s := newScraper(fetch.DefaultOptions())

	records, err := s.Links(context.Background(), URL(srv.URL+"/page"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "http://www.index.hu", records[0].Attributes[extract.AbsHrefKey])
	assert.Equal(t, "http://www.index2.hu", records[1].Attributes[extract.AbsHrefKey])
	assert.Equal(t, "Index1", records[0].Text)
	require.NotNil(t, records[0].URL)
	assert.Equal(t, srv.URL+"/page", *records[0].URL)
}

func TestPlainText_SelectorConcatenatesMatches(t *testing.T) {
	srv := newScenarioServer(t)
	s := newScraper(fetch.DefaultOptions())

	text, err := s.PlainText(context.Background(), URL(srv.URL+"/page"), "a[href]")
	require.NoError(t, err)
	assert.Equal(t, "Index1Index2", text.String())

	inline, err := s.PlainText(context.Background(), HTML(scenario), "a[href]")
	require.NoError(t, err)
	assert.Equal(t, "Index1Index2", inline.String())
}

func TestPlainText_WholeDocument(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	text, err := s.PlainText(context.Background(), HTML(`<p>Hello<script>x()</script></p><p>World</p>`), "")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\nWorld", text.String())
}

func TestPlainText_URLFailuresBecomeEmptyText(t *testing.T) {
	srv := newScenarioServer(t)
	s := newScraper(fetch.DefaultOptions())

	for _, u := range []string{srv.URL + "/missing", "not a url"} {
		text, err := s.PlainText(context.Background(), URL(u), "")
		require.NoError(t, err, u)
		assert.True(t, text.IsEmpty(), u)
	}

	text, err := s.PlainText(context.Background(), URL(srv.URL+"/page"), "a[")
	require.NoError(t, err)
	assert.True(t, text.IsEmpty())
}

func TestPlainText_FragmentReportsBadSelector(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	_, err := s.PlainText(context.Background(), HTML("<p>x</p>"), "a[")
	assert.ErrorIs(t, err, core.ErrInvalidSelector)
}

func TestPlainText_NoMatchesIsEmptyText(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	text, err := s.PlainText(context.Background(), HTML("<p>x</p>"), "table")
	require.NoError(t, err)
	assert.Equal(t, core.EmptyText, text)
}

func TestFind_PropagatesAcquisitionErrors(t *testing.T) {
	srv := newScenarioServer(t)

	_, err := newScraper(fetch.DefaultOptions()).Links(context.Background(), URL(srv.URL+"/missing"))
	assert.ErrorIs(t, err, core.ErrHTTPStatus)

	_, err = newScraper(fetch.DefaultOptions()).Links(context.Background(), URL("ftp://a.test/"))
	assert.ErrorIs(t, err, core.ErrMalformedURL)

	fast := fetch.DefaultOptions()
	fast.Timeout = 50 * time.Millisecond
	start := time.Now()
	_, err = newScraper(fast).AllElements(context.Background(), URL(srv.URL+"/slow"))
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFind_InvalidArgumentsFailBeforeFetching(t *testing.T) {
	srv := newScenarioServer(t)
	s := newScraper(fetch.DefaultOptions())
	ctx := context.Background()

	_, err := s.ElementsByIndexEquals(ctx, URL(srv.URL+"/page"), "abc")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = s.ElementsMatchingText(ctx, URL(srv.URL+"/page"), "(")
	assert.ErrorIs(t, err, core.ErrInvalidPattern)

	_, err = s.Select(ctx, URL(srv.URL+"/page"), "a[")
	assert.ErrorIs(t, err, core.ErrInvalidSelector)

	assert.Zero(t, srv.hits.Load())
}

func TestElementByID(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	ctx := context.Background()

	records, err := s.ElementByID(ctx, HTML(scenario), "box")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "div", records[0].TagName)
	assert.Equal(t, []string{"card"}, records[0].ClassNames)
	assert.Nil(t, records[0].URL)

	records, err = s.ElementByID(ctx, HTML(scenario), "nope")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNamedFinders(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	ctx := context.Background()
	src := HTML(scenario)

	count := func(records []core.Record, err error) int {
		require.NoError(t, err)
		return len(records)
	}

	assert.Equal(t, 1, count(s.MediaLinks(ctx, src)))
	assert.Equal(t, 2, count(s.ElementsByTag(ctx, src, "a")))
	assert.Equal(t, 1, count(s.ElementsByClass(ctx, src, "CARD")))
	assert.Equal(t, 2, count(s.ElementsByAttribute(ctx, src, "href")))
	assert.Equal(t, 1, count(s.ElementsByAttributeStarting(ctx, src, "sr")))
	assert.Equal(t, 1, count(s.ElementsByAttributeValue(ctx, src, "href", "http://www.index.hu")))
	assert.Equal(t, 1, count(s.ElementsByAttributeValueStarting(ctx, src, "href", "http://www.index2")))
	assert.Equal(t, 1, count(s.ElementsByAttributeValueEnding(ctx, src, "src", ".PNG")))
	assert.Equal(t, 2, count(s.ElementsByAttributeValueContaining(ctx, src, "href", "index")))
	assert.Equal(t, 1, count(s.ElementsByAttributeValueMatching(ctx, src, "href", `index2`)))
	assert.Equal(t, 1, count(s.ElementsContainingOwnText(ctx, src, "some")))
	assert.Equal(t, 1, count(s.ElementsMatchingOwnText(ctx, src, `^Index2$`)))
	assert.Equal(t, 2, count(s.ElementsByXPath(ctx, src, "//a")))
	assert.Equal(t, count(s.AllElements(ctx, src))-1, count(s.ElementsByAttributeValueNot(ctx, src, "href", "http://www.index.hu")))
}

func TestMarkdown(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	md, err := s.Markdown(context.Background(), HTML(`<h1>Title</h1><div class="c"><p>Hi <strong>there</strong></p></div>`), ".c")
	require.NoError(t, err)
	assert.Equal(t, "Hi **there**", md.String())

	whole, err := s.Markdown(context.Background(), HTML(`<h1>Title</h1>`), "")
	require.NoError(t, err)
	assert.Equal(t, "# Title", whole.String())

	none, err := s.Markdown(context.Background(), HTML(`<p>x</p>`), "table")
	require.NoError(t, err)
	assert.True(t, none.IsEmpty())
}

func TestDocument(t *testing.T) {
	srv := newScenarioServer(t)
	s := newScraper(fetch.DefaultOptions())

	body, err := s.Document(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, scenario, body.String())

	empty, err := s.Document(context.Background(), srv.URL+"/empty")
	require.NoError(t, err)
	assert.Equal(t, core.EmptyText, empty)

	_, err = s.Document(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, core.ErrHTTPStatus)
}

func TestRun(t *testing.T) {
	s := newScraper(fetch.DefaultOptions())
	ctx := context.Background()

	records, err := s.Run(ctx, HTML(scenario), "by-attribute-value", []string{"href", "http://www.index2.hu"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Index2", records[0].Text)

	_, err = s.Run(ctx, HTML(scenario), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = s.Run(ctx, HTML(scenario), "by-tag", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestOperations(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, len(operations))
	for i, op := range ops {
		if i > 0 {
			assert.Less(t, ops[i-1].Name, op.Name)
		}
		assert.NotNil(t, op.Args, op.Name)
		found, err := Lookup(op.Name)
		require.NoError(t, err)
		assert.Equal(t, op.Name, found.Name)
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "http://a.test/", URL("http://a.test/").String())
	assert.Equal(t, "html(3 bytes)", HTML("<p>").String())
	assert.Equal(t, "url", ModeURL.String())
	assert.Equal(t, "html", ModeHTML.String())
}
