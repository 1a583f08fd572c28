// Package server exposes the generator, the run store and the payment gate
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/db"
	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
	"github.com/dtnitsch/llmstxt-generator/pkg/payment"
)

// RunStore is the subset of *db.DB the handlers use.
type RunStore interface {
	CreateRun(in db.NewRun) (*db.Run, error)
	FindActiveRun(id string) (*db.Run, error)
	FindRun(id string) (*db.Run, error)
	MarkPaid(id string) (*db.Run, error)
	DeleteExpired() (int64, error)
}

type Generator interface {
	Generate(ctx context.Context, input models.SurveyInput) (*models.GeneratedDocument, error)
}

type Payments interface {
	CreateCheckout(ctx context.Context, runID, origin string) (string, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*payment.WebhookEvent, error)
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Store        RunStore
	Generator    Generator
	Payments     Payments
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	CleanupToken string
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(Recovery(d.Logger))
	router.Use(RequestContext(d.Logger, d.Metrics))

	generate := NewGenerateHandler(d.Generator, d.Store, d.Metrics, d.Logger)
	runs := NewRunsHandler(d.Store)
	checkout := NewCheckoutHandler(d.Store, d.Payments, d.Logger)
	cleanup := NewCleanupHandler(d.Store, d.CleanupToken, d.Metrics, d.Logger)
	webhook := NewWebhookHandler(d.Store, d.Payments, d.Metrics, d.Logger)

	api := router.Group("/api")
	api.POST("/generate", generate.Create)
	api.POST("/checkout", checkout.Create)
	api.GET("/download", runs.Download)
	api.GET("/run", runs.Show)
	api.GET("/cleanup", cleanup.Run)
	api.POST("/cleanup", cleanup.Run)
	api.POST("/stripe/webhook", webhook.Create)

	router.GET("/up", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	return router
}

// Server runs the router until its context is cancelled.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// generation waits on a crawl plus a model call
			WriteTimeout: 3 * time.Minute,
		},
		logger: logger,
	}
}

// Run listens until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("HTTP server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
