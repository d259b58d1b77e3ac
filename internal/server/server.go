// Package server provides the HTTP REST API for the content engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mjagro/content-engine/internal/config"
	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/fetch"
	"github.com/mjagro/content-engine/internal/generate"
	"github.com/mjagro/content-engine/internal/llm"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/server/middleware"
	"github.com/mjagro/content-engine/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authService *AuthService
	authHandler *AuthHandler
	generator   *generate.Service
	engine      *qa.Engine
	scanner     *fetch.Scanner
	llmClient   llm.Client
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	APIKey       string
	PageCacheTTL time.Duration
	Verbose      bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{
		db: database,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.authService = NewAuthService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.authService, s.jwtService)

	// LLM-backed services are only available when an API key is configured;
	// the QA and approval endpoints work without one.
	if cfg.APIKey != "" {
		client, err := llm.NewClient(context.Background(), llm.DefaultGeminiConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
		s.generator = generate.NewService(database, client, qa.DefaultRuleSet(), generate.DefaultBrand())
	}

	fetcherConfig := fetch.DefaultCachedFetcherConfig()
	if cfg.PageCacheTTL > 0 {
		fetcherConfig.CacheTTL = cfg.PageCacheTTL
	}
	s.scanner = fetch.NewScanner(fetch.NewCachedFetcher(database, fetcherConfig), s.llmClient, cfg.Verbose)

	s.engine = qa.NewEngine(database, qa.DefaultRuleSet())

	// Setup router
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth endpoints (public)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Product endpoints
	mux.Handle("POST /products", auth(http.HandlerFunc(s.handleCreateProduct)))
	mux.Handle("GET /products", auth(http.HandlerFunc(s.handleListProducts)))
	mux.Handle("GET /products/{id}", auth(http.HandlerFunc(s.handleGetProduct)))
	mux.Handle("DELETE /products/{id}", auth(http.HandlerFunc(s.handleDeactivateProduct)))
	mux.Handle("POST /products/{id}/scan", auth(http.HandlerFunc(s.handleScanProduct)))

	// Project endpoints
	mux.Handle("POST /projects", auth(http.HandlerFunc(s.handleCreateProject)))
	mux.Handle("GET /projects", auth(http.HandlerFunc(s.handleListProjects)))
	mux.Handle("GET /projects/{id}", auth(http.HandlerFunc(s.handleGetProject)))
	mux.Handle("DELETE /projects/{id}", auth(http.HandlerFunc(s.handleDeleteProject)))

	// Content generation endpoints
	mux.Handle("POST /projects/{id}/hooks", auth(http.HandlerFunc(s.handleGenerateHooks)))
	mux.Handle("GET /projects/{id}/hooks", auth(http.HandlerFunc(s.handleListHooks)))
	mux.Handle("POST /projects/{id}/hooks/{hook_id}/select", auth(http.HandlerFunc(s.handleSelectHook)))
	mux.Handle("POST /projects/{id}/scripts", auth(http.HandlerFunc(s.handleGenerateScripts)))
	mux.Handle("GET /projects/{id}/scripts", auth(http.HandlerFunc(s.handleListScripts)))
	mux.Handle("POST /projects/{id}/scripts/{script_id}/select", auth(http.HandlerFunc(s.handleSelectScript)))
	mux.Handle("POST /projects/{id}/captions", auth(http.HandlerFunc(s.handleGenerateCaptions)))
	mux.Handle("GET /projects/{id}/captions", auth(http.HandlerFunc(s.handleListCaptions)))
	mux.Handle("POST /projects/{id}/storyboard", auth(http.HandlerFunc(s.handleGenerateStoryboard)))
	mux.Handle("GET /projects/{id}/storyboard", auth(http.HandlerFunc(s.handleGetStoryboard)))
	mux.Handle("POST /generate/field", auth(http.HandlerFunc(s.handleGenerateField)))

	// QA endpoints
	mux.Handle("POST /projects/{id}/qa", auth(http.HandlerFunc(s.handleRunQA)))
	mux.Handle("GET /projects/{id}/checks", auth(http.HandlerFunc(s.handleListChecks)))

	// Approval endpoints (approver role required)
	mux.Handle("POST /projects/{id}/approve", auth(http.HandlerFunc(s.handleApprove)))
	mux.Handle("POST /projects/{id}/reject", auth(http.HandlerFunc(s.handleReject)))
	mux.Handle("POST /projects/{id}/export", auth(http.HandlerFunc(s.handleExport)))
	mux.Handle("GET /projects/{id}/approvals", auth(http.HandlerFunc(s.handleListApprovals)))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
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

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			// Set rate limit headers
			s.setRateLimitHeaders(w, info)
			// Return 429 Too Many Requests
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
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
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	// Log rate limit hit
	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
