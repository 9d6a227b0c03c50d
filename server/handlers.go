package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/scrape"
)

// sourceRequest names exactly one of URL or HTML.
type sourceRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

func (r sourceRequest) source() (scrape.Source, error) {
	switch {
	case r.URL != "" && r.HTML != "":
		return scrape.Source{}, fmt.Errorf("%w: give either url or html, not both", core.ErrInvalidArgument)
	case r.URL != "":
		return scrape.URL(r.URL), nil
	case r.HTML != "":
		return scrape.HTML(r.HTML), nil
	}
	return scrape.Source{}, fmt.Errorf("%w: url or html is required", core.ErrInvalidArgument)
}

type findRequest struct {
	sourceRequest
	Args []string `json:"args"`
}

type textRequest struct {
	sourceRequest
	Selector string `json:"selector"`
}

type findResponse struct {
	Operation string        `json:"operation"`
	Records   []core.Record `json:"records"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listOperations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"operations": scrape.Operations()})
}

func (s *Server) find(c *gin.Context) {
	name := c.Param("op")
	op, err := scrape.Lookup(name)
	if err != nil {
		s.fail(c, err)
		return
	}

	var req findRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err))
		return
	}
	src, err := req.source()
	if err != nil {
		s.fail(c, err)
		return
	}
	criteria, err := op.Build(req.Args)
	if err != nil {
		s.fail(c, err)
		return
	}

	records, err := s.scraper.Find(c.Request.Context(), src, criteria)
	if err != nil {
		s.fail(c, err)
		return
	}
	if records == nil {
		records = []core.Record{}
	}
	s.metrics.Matches.WithLabelValues(op.Name).Observe(float64(len(records)))
	c.JSON(http.StatusOK, findResponse{Operation: op.Name, Records: records})
}

func (s *Server) plainText(c *gin.Context) {
	s.text(c, s.scraper.PlainText)
}

func (s *Server) markdown(c *gin.Context) {
	s.text(c, s.scraper.Markdown)
}

type textFunc func(context.Context, scrape.Source, string) (core.TextResult, error)

func (s *Server) text(c *gin.Context, render textFunc) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err))
		return
	}
	src, err := req.source()
	if err != nil {
		s.fail(c, err)
		return
	}
	text, err := render(c.Request.Context(), src, req.Selector)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, text)
}

func (s *Server) document(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		s.fail(c, fmt.Errorf("%w: url is required", core.ErrInvalidArgument))
		return
	}
	text, err := s.scraper.Document(c.Request.Context(), rawURL)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, text)
}

// fail writes the JSON error body with the status for err's category.
func (s *Server) fail(c *gin.Context, err error) {
	status, category := classify(err)
	s.metrics.Failures.WithLabelValues(category).Inc()
	zerolog.Ctx(c.Request.Context()).Debug().Err(err).Str("category", category).Msg("request failed")

	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"category":   category,
		"request_id": c.GetString(requestIDKey),
	})
}

// classify maps an error to its HTTP status and category label.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, scrape.ErrUnknownOperation):
		return http.StatusNotFound, "unknown_operation"
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, core.ErrInvalidPattern):
		return http.StatusBadRequest, "invalid_pattern"
	case errors.Is(err, core.ErrInvalidSelector):
		return http.StatusBadRequest, "invalid_selector"
	case errors.Is(err, core.ErrMalformedURL):
		return http.StatusBadRequest, "malformed_url"
	case errors.Is(err, core.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, core.ErrHTTPStatus):
		return http.StatusBadGateway, "http_status"
	case errors.Is(err, core.ErrUnsupportedContentType):
		return http.StatusBadGateway, "content_type"
	case errors.Is(err, core.ErrNetwork):
		return http.StatusBadGateway, "network"
	}
	return http.StatusInternalServerError, "internal"
}
