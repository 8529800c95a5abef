// Package api exposes accession resolution over HTTP: clients can look
// up run metadata and probe downloadability without touching the CLI.
// Transfers stay on the command line; the API never writes files.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alejandrogzi/gofq/internal/accession"
	"github.com/alejandrogzi/gofq/internal/ena"
	"github.com/alejandrogzi/gofq/internal/errors"
	"github.com/alejandrogzi/gofq/internal/pipeline"
)

// Server represents the HTTP API server
type Server struct {
	router      *mux.Router
	server      *http.Server
	classifier  *accession.Classifier
	meta        *ena.Client
	maxAttempts int
	retryDelay  time.Duration
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	ENABaseURL  string
	MaxAttempts int
	RetryDelay  time.Duration
}

// NewServer creates a new API server instance
func NewServer(cfg *Config) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		classifier:  accession.NewClassifier(),
		meta:        ena.NewClient(cfg.ENABaseURL),
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}

	s.setupRoutes()
	s.router.Use(loggingMiddleware)
	s.router.Use(jsonMiddleware)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/runs/{accession}", s.handleGetRuns).Methods("GET")
	api.HandleFunc("/probe/{accession}", s.handleProbe).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// Handler returns the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Middleware functions

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Helper functions

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  status,
	})
}

// resolve classifies an accession and fetches its run records.
func (s *Server) resolve(ctx context.Context, acc string) ([]ena.Record, error) {
	query, err := s.classifier.Classify(acc)
	if err != nil {
		return nil, err
	}
	return s.meta.FetchRuns(ctx, query, s.maxAttempts, s.retryDelay)
}

// handleGetRuns resolves an accession to its run records.
func (s *Server) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	acc := mux.Vars(r)["accession"]

	records, err := s.resolve(r.Context(), acc)
	if err != nil {
		s.writeResolveError(w, acc, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"accession": acc,
		"count":     len(records),
		"runs":      records,
	})
}

// handleProbe reports whether read files are available for an accession.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	acc := mux.Vars(r)["accession"]

	records, err := s.resolve(r.Context(), acc)
	if err != nil {
		s.writeResolveError(w, acc, err)
		return
	}

	status := pipeline.ProbeNotFound
	if records[0].Downloadable() {
		status = pipeline.ProbeDownloadable
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"accession": acc,
		"status":    status,
	})
}

func (s *Server) writeResolveError(w http.ResponseWriter, acc string, err error) {
	switch errors.GetKind(err) {
	case errors.KindInput:
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.KindTransient, errors.KindNetwork:
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRoot returns API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name": "gofq API",
		"endpoints": []string{
			"/api/v1/runs/{accession}",
			"/api/v1/probe/{accession}",
			"/api/v1/health",
		},
	})
}
