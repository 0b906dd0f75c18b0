// Package server exposes the tutor over HTTP: POST /api/chat behind an
// optional bearer-token gate.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/config"
	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

// Server serves the chat route
type Server struct {
	cfg       config.ServerConfig
	generator api.Generator
	engine    *gin.Engine
	logf      func(format string, args ...any)
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets a printf-style hook for diagnostics
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *Server) {
		s.logf = logf
	}
}

// New creates a server that answers chat requests with generator
func New(cfg config.ServerConfig, generator api.Generator, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		generator: generator,
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if len(s.cfg.AllowOrigins) > 0 {
		headers := cors.DefaultConfig()
		headers.AllowOrigins = s.cfg.AllowOrigins
		headers.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		headers.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		headers.ExposeHeaders = []string{"Content-Length"}
		r.Use(cors.New(headers))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api",
		AuthMiddleware(s.cfg.JWTSecret, s.cfg.BypassAuth),
		RateLimit(s.cfg.RateLimit, s.cfg.RateBurst),
	)
	{
		apiGroup.POST("/chat", s.handleChat)
	}

	return r
}

// handleChat answers {message, imageDataUrl, history} with {text}, or
// {error} and status 500 on any failure
func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	text, err := s.generator.Generate(c.Request.Context(), api.Prompt{
		History:      req.History,
		Message:      req.Message,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		s.logf("[verbose] chat failed: %v\n", err)
		msg := apierrors.UserMessage(err)
		if msg == "" {
			msg = models.UnknownErrorText
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Text: text})
}

// Run serves on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}
