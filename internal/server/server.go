// Package server exposes the model compiler over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/lint"
	"github.com/syssam/modelgen/compiler/load"
)

// Server serves the compile API.
type Server struct {
	cfg     *gen.Config
	log     *zap.Logger
	maxBody int64
	engine  *gin.Engine
}

// Option configures the Server.
type Option func(*Server)

// WithMaxBody bounds the size of request documents.
func WithMaxBody(n int64) Option {
	return func(s *Server) {
		s.maxBody = n
	}
}

// New creates a server compiling with cfg. The config target is ignored;
// compiled modules are only returned in responses.
func New(cfg *gen.Config, log *zap.Logger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log, maxBody: 1 << 20}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.router()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := r.Group("/v1")
	{
		v1.GET("/formats", s.formats)
		v1.POST("/compile", s.compile)
		v1.POST("/lint", s.lint)
	}
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type formatItem struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

func (s *Server) formats(c *gin.Context) {
	out := make([]formatItem, 0, len(load.Formats()))
	for _, f := range load.Formats() {
		out = append(out, formatItem{Name: f.Name, Extensions: f.Extensions})
	}
	c.JSON(http.StatusOK, out)
}

type compiledEntity struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Source string `json:"source"`
}

type entityError struct {
	Entity string `json:"entity"`
	Error  string `json:"error"`
}

type compileResponse struct {
	Entities []compiledEntity `json:"entities"`
	Errors   []entityError    `json:"errors"`
}

// compile decodes the request document and returns one module per model.
// Query parameters: format (default yaml) and author.
func (s *Server) compile(c *gin.Context) {
	schemas, ok := s.decode(c)
	if !ok {
		return
	}
	cfg := *s.cfg
	if author, ok := c.GetQuery("author"); ok {
		if err := cfg.Apply(gen.WithAuthor(author)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cfg.Target = "."
	results, err := gen.NewWriter(&cfg, s.log).DryRun(true).WriteAll(c.Request.Context(), schemas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := compileResponse{Entities: []compiledEntity{}, Errors: []entityError{}}
	for _, r := range results {
		if r.Err != nil {
			resp.Errors = append(resp.Errors, entityError{Entity: r.Entity, Error: r.Err.Error()})
			continue
		}
		resp.Entities = append(resp.Entities, compiledEntity{Name: r.Entity, File: r.Path, Source: r.Source})
	}
	status := http.StatusOK
	if len(resp.Entities) == 0 && len(resp.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

type lintIssue struct {
	Severity  string `json:"severity"`
	Entity    string `json:"entity"`
	Attribute string `json:"attribute,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) lint(c *gin.Context) {
	schemas, ok := s.decode(c)
	if !ok {
		return
	}
	res := lint.Schemas(schemas)
	out := make([]lintIssue, 0, len(res.Issues))
	for _, i := range res.Issues {
		out = append(out, lintIssue{
			Severity:  i.Severity.String(),
			Entity:    i.Entity,
			Attribute: i.Attribute,
			Message:   i.Message,
		})
	}
	c.JSON(http.StatusOK, gin.H{"issues": out})
}

// decode reads the request document. It writes the error response and
// returns false on failure.
func (s *Server) decode(c *gin.Context) ([]*load.Schema, bool) {
	f, err := load.FormatByName(c.DefaultQuery("format", "yaml"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	schemas, err := f.Parse(body, "request")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return schemas, true
}
