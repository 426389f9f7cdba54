package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/server/middleware"
	"github.com/jonathan/career-assistant/internal/server/ratelimit"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	manager     *conversation.Manager
	assistant   *assistant.Assistant
	gateway     *gateway.Gateway
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	now         func() time.Time
	cleanup     func()
}

// Config holds server configuration
type Config struct {
	Port int
	// JWT enables session tokens. Nil leaves session routes open.
	JWT *config.JWTConfig
	// RateLimit overrides the RATE_LIMIT_* environment settings.
	RateLimit *ratelimit.Config
}

// Deps are the services behind the handlers.
type Deps struct {
	Manager   *conversation.Manager
	Assistant *assistant.Assistant
	Gateway   *gateway.Gateway
	// Cleanup runs after shutdown, e.g. to close the database pool.
	Cleanup func()
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Manager == nil || deps.Assistant == nil || deps.Gateway == nil {
		return nil, fmt.Errorf("server requires a conversation manager, an assistant and a gateway")
	}

	s := &Server{
		manager:   deps.Manager,
		assistant: deps.Assistant,
		gateway:   deps.Gateway,
		now:       time.Now,
		cleanup:   deps.Cleanup,
	}

	limits := cfg.RateLimit
	if limits == nil {
		limits = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(limits)

	var validator middleware.TokenValidator
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
		validator = s.jwtService.AsTokenValidator()
	} else {
		log.Printf("[server] JWT_SECRET not set, session routes are unauthenticated")
	}
	session := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireSession(validator)(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Conversation sessions
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("GET /sessions/{id}", session(s.handleGetSession))
	mux.Handle("DELETE /sessions/{id}", session(s.handleResetSession))
	mux.Handle("POST /sessions/{id}/messages", session(s.handleSendMessage))
	mux.Handle("POST /sessions/{id}/messages/stream", session(s.handleSendMessageStream))
	mux.Handle("POST /sessions/{id}/resume", session(s.handleUploadResume))
	mux.Handle("POST /sessions/{id}/resume/edits", session(s.handleCustomEdit))
	mux.Handle("PUT /sessions/{id}/profile", session(s.handleUpdateProfile))

	// Labor-market data and utilities
	mux.HandleFunc("GET /api/bls", s.handleBLS)
	mux.HandleFunc("GET /api/onet", s.handleONet)
	mux.HandleFunc("GET /api/adzuna", s.handleAdzuna)
	mux.HandleFunc("GET /api/careers", s.handleCareers)
	mux.HandleFunc("POST /api/proxy", s.handleProxy)
	mux.HandleFunc("POST /api/resume/analyze", s.handleAnalyzeResume)
	mux.HandleFunc("POST /api/generate-resume", s.handleGenerateResume)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // model calls chain up to two generations
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled or the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	if s.cleanup != nil {
		s.cleanup()
	}
	log.Println("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
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

// failure logs err and writes its status with the client-facing message.
func (s *Server) failure(w http.ResponseWriter, err error, fallback string) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %s: %v", fallback, err)
	}
	s.errorResponse(w, status, clientMessage(err, fallback))
}

// decodeJSON reads a JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
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

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
