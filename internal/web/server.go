package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/addrfmt/internal/web/handlers"
	"github.com/addrfmt/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(config *Config) *Server {
	server := &Server{config: config}
	server.router = NewRouter(config)
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// NewRouter configures all HTTP routes
func NewRouter(config *Config) *mux.Router {
	router := mux.NewRouter()
	parseHandler := &handlers.ParseHandler{Debug: config.Debug}

	router.HandleFunc("/api/health", handlers.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/parse", parseHandler.Parse).Methods("POST")
	api.HandleFunc("/parse/batch", parseHandler.ParseBatch).Methods("POST")
	api.HandleFunc("/rules", handlers.Rules).Methods("GET")

	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogging())
	if config.Auth.APIKey != "" {
		api.Use(middleware.Authentication(config.Auth.APIKey))
	}
	return router
}

// Start serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
