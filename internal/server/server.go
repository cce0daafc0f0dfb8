// Package server provides the HTTP API for the job capture service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/job-capture/internal/cache"
	"github.com/jonathan/job-capture/internal/db"
	"github.com/jonathan/job-capture/internal/llm"
	"github.com/jonathan/job-capture/internal/pipeline"
	"github.com/jonathan/job-capture/internal/summarize"
	"github.com/jonathan/job-capture/internal/types"
)

// DocStore is the read side of persistence the handlers need. *db.DB
// satisfies it; tests substitute a stub.
type DocStore interface {
	GetJobDocByID(ctx context.Context, id uuid.UUID) (*types.JobDoc, error)
	GetJobDocByURL(ctx context.Context, normalizedURL string) (*types.JobDoc, error)
	ListJobDocs(ctx context.Context, opts db.ListJobDocsOptions) ([]types.JobDoc, int, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	docs       DocStore
	pipe       *pipeline.Pipeline
	existence  cache.ExistenceCache
	validate   *validator.Validate

	// existsGroup collapses concurrent existence checks for the same URL
	// into one database lookup.
	existsGroup singleflight.Group
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	// RedisAddr enables the shared existence cache; empty uses in-process.
	RedisAddr string
}

// New creates a new server instance with live collaborators.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var existence cache.ExistenceCache
	if cfg.RedisAddr != "" {
		existence = cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), 0)
	} else {
		existence = cache.NewMemoryCache(0)
	}

	opts := pipeline.Options{
		Store:     database,
		Existence: existence,
	}
	if cfg.APIKey != "" {
		client, err := llm.NewClient(context.Background(), nil, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		opts.Extractor = llm.NewExtractor(client, nil)
		opts.Summarizer = summarize.New(client, 0)
	} else {
		log.Println("No API key configured; running with rule-based extraction only")
	}

	return NewWithComponents(cfg.Port, database, pipeline.New(opts), existence), nil
}

// NewWithComponents wires a server from prebuilt collaborators.
func NewWithComponents(port int, docs DocStore, pipe *pipeline.Pipeline, existence cache.ExistenceCache) *Server {
	s := &Server{
		docs:      docs,
		pipe:      pipe,
		existence: existence,
		validate:  validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withLogging(s.withCORS(s.Routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for streaming captures
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Routes builds the request router.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /capture/stream", s.handleCaptureStream)
	mux.HandleFunc("GET /jobs/exists", s.handleJobExists)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if s.docs != nil {
		if err := s.docs.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	s.jsonResponse(w, code, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// errorResponse writes a JSON error response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
