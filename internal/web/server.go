// Package web serves the task list as a JSON API for a browser front end.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo/internal/logging"
	"todo/internal/query"
	"todo/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP API over one task store.
type Server struct {
	store     *store.Store
	projector *query.Projector
	router    *gin.Engine
	now       func() time.Time
	pdfFont   string
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the time source deciding "today" for filters and overdue
// flags.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithPDFFont sets the TrueType font used for PDF exports.
func WithPDFFont(path string) Option {
	return func(s *Server) { s.pdfFont = path }
}

// NewServer builds the router. mode is a gin mode: debug, release or test.
func NewServer(st *store.Store, mode string, opts ...Option) *Server {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if mode == gin.DebugMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		store:     st,
		projector: query.NewProjector(st),
		router:    router,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleList)
		api.POST("/tasks", s.handleCreate)
		api.GET("/tasks/:id", s.handleGet)
		api.PUT("/tasks/:id", s.handleUpdate)
		api.POST("/tasks/:id/toggle", s.handleToggle)
		api.DELETE("/tasks/:id", s.handleDelete)
		api.GET("/export", s.handleExport)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "tasks": s.store.Len()})
	})

	return s
}

// Close releases the server's subscription to the store.
func (s *Server) Close() {
	s.projector.Close()
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Debugf("listening on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
