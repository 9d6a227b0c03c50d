// Package server exposes the query facade over HTTP with gin.
//
// Routes:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /v1/operations
//	POST /v1/find/:op   {"url"|"html", "args": [...]}
//	POST /v1/text       {"url"|"html", "selector"}
//	POST /v1/markdown   {"url"|"html", "selector"}
//	GET  /v1/document?url=
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/pagequery/config"
	"github.com/gaurav-prasanna/pagequery/core/scrape"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the router and its dependencies.
type Server struct {
	router  *gin.Engine
	scraper *scrape.Scraper
	metrics *Metrics
	cfg     config.ServerConfig
}

// New creates a Server answering with scraper.
func New(scraper *scrape.Scraper, cfg config.ServerConfig) *Server {
	s := &Server{
		router:  gin.New(),
		scraper: scraper,
		metrics: NewMetrics(),
		cfg:     cfg,
	}
	s.router.Use(gin.Recovery(), requestID(), accessLog(), s.metrics.Middleware())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/v1")
	v1.GET("/operations", s.listOperations)
	v1.POST("/find/:op", s.find)
	v1.POST("/text", s.plainText)
	v1.POST("/markdown", s.markdown)
	v1.GET("/document", s.document)
}

// Handler returns the router for use with an http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
