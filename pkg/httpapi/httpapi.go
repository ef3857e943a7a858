// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package httpapi is a small debug HTTP server exposing the search
// subsystem's live state, the ecosystem equivalent of a manager status
// page: gin routes, one JSON handler per endpoint, logrus for request
// logging — the same pairing network.go uses for its replica/event
// endpoints.
package httpapi

import (
	"context"
	"net/http"

	"github.com/a-nogikh/symsearch/pkg/search"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server serves /searcher/stats and /searcher/pdf against a live
// PollableSearcher.
type Server struct {
	logger *logrus.Logger
	engine *gin.Engine
	server *http.Server
	source PollableSearcher
}

// PollableSearcher is the narrow view a running engine exposes for
// debugging: whether any state is live, and a snapshot of the current
// weighted-random searcher's distribution, if one is in play.
type PollableSearcher interface {
	Empty() bool
	PDFSnapshot() []search.PDFEntry
}

// NewServer builds a Server listening on addr, reporting on source.
func NewServer(addr string, source PollableSearcher, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	s := &Server{
		logger: logger,
		engine: r,
		source: source,
		server: &http.Server{Addr: addr, Handler: r},
	}
	r.Use(s.requestLogger())
	r.GET("/searcher/stats", s.handleStats)
	r.GET("/searcher/pdf", s.handlePDF)
	return s
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("handled request")
	}
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"empty": s.source.Empty()})
}

func (s *Server) handlePDF(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.source.PDFSnapshot()})
}

// ListenAndServe blocks serving until ctx is cancelled or an error occurs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()
	select {
	case <-ctx.Done():
		return s.server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
