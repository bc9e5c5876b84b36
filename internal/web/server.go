package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/engine"
	"github.com/ch-finder/internal/web/handlers"
	"github.com/ch-finder/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	conn       *db.Connection
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server over an open database connection
func NewServer(config *Config, conn *db.Connection) (*Server, error) {
	if err := conn.DB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	server := &Server{
		config: config,
		conn:   conn,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	searchHandler := &handlers.SearchHandler{
		Searcher:   engine.NewSearcher(s.conn),
		MaxResults: s.config.Search.MaxResults,
	}
	metaHandler := &handlers.MetaHandler{
		Conn:         s.conn,
		ProfilesPath: s.config.Data.ProfilesPath,
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", searchHandler.Search).Methods("POST")
	api.HandleFunc("/categories", metaHandler.Categories).Methods("GET")
	api.HandleFunc("/profiles", metaHandler.Profiles).Methods("GET")
	api.HandleFunc("/stats", metaHandler.Stats).Methods("GET")

	s.router.HandleFunc("/healthz", metaHandler.Health).Methods("GET")

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())

	if s.config.Auth.Enabled {
		api.Use(middleware.Authentication(s.config.Auth.APIKey))
	}
}

// Start starts the web server and blocks until a shutdown signal
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		fmt.Printf("Database close error: %v\n", err)
	}

	fmt.Println("Server stopped")
	return nil
}
