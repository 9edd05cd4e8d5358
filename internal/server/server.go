// Package server serves the dashboard over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukaji3/xlsxdash-go/internal/report"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/catalog"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id on every response.
const RequestIDHeader = "X-Request-ID"

// Config holds HTTP server settings
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server renders the catalog on every request. Nothing is cached between requests.
type Server struct {
	router   *gin.Engine
	catalog  *catalog.Catalog
	opts     xlsxdash.Options
	renderer *report.Renderer
	logger   *zap.Logger
	config   Config
}

// New creates a server. The catalog is shared read-only between requests.
func New(cfg Config, cat *catalog.Catalog, opts xlsxdash.Options, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer, err := report.New()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger

	s := &Server{
		router:   gin.New(),
		catalog:  cat,
		opts:     opts,
		renderer: renderer,
		logger:   logger,
		config:   cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID())
	s.router.Use(requestLogger(s.logger))
	s.router.Use(gin.Recovery())
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/charts/:key", s.handleChart)
	s.router.GET("/api/catalog", s.handleCatalog)
	s.router.GET("/healthz", s.handleHealth)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c *gin.Context) {
	page := xlsxdash.BuildPage(s.catalog, s.requestOptions(c))

	var buf bytes.Buffer
	if err := s.renderer.Write(&buf, page); err != nil {
		s.logger.Error("failed to render dashboard", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render dashboard")
		return
	}
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

func (s *Server) handleChart(c *gin.Context) {
	key := c.Param("key")
	spec, ok := s.catalog.Lookup(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown chart %q", key)})
		return
	}

	opts := s.requestOptions(c)
	image, err := xlsxdash.RenderImage(spec, opts)
	switch {
	case err == nil:
		c.Data(http.StatusOK, opts.MediaType(), image)
	case errors.Is(err, xlsxdash.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": xlsxdash.SourceNotFoundMessage(spec, opts)})
	default:
		s.logger.Warn("chart not rendered", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": xlsxdash.RenderFailureMessage(spec, err)})
	}
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "charts": len(s.catalog.Charts)})
}

// requestOptions tags render logs with the request id.
func (s *Server) requestOptions(c *gin.Context) xlsxdash.Options {
	opts := s.opts
	opts.Logger = s.logger.With(zap.String("request_id", c.GetString(RequestIDHeader)))
	return opts
}
