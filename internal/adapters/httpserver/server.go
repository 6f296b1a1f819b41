package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

// Server is the HTTP frontend for the categorizer service
type Server struct {
	service     *core.CategorizerService
	logger      *zap.Logger
	host        string
	port        int
	serviceName string
	httpServer  *http.Server
}

// NewServer creates a new HTTP frontend
func NewServer(
	service *core.CategorizerService,
	logger *zap.Logger,
	host string,
	port int,
	serviceName string,
) *Server {
	return &Server{
		service:     service,
		logger:      logger,
		host:        host,
		port:        port,
		serviceName: serviceName,
	}
}

// Start starts the HTTP server in a background goroutine
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// setupRouter configures all routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(corsMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/categorize", s.handleCategorize)
	r.Get("/categories", s.handleCategories)
	r.Get("/stats", s.handleStats)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})

	return r
}
