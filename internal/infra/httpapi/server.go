package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"home-command/internal/application"
	"home-command/internal/domain"
)

// TurnRunner is what the server needs from the orchestrator.
type TurnRunner interface {
	RunTurn(ctx context.Context, req domain.TurnRequest) domain.TurnResponse
}

// Server is the HTTP surface clients send turn requests to.
type Server struct {
	addr        string
	authToken   string
	runner      TurnRunner
	notifier    application.Notifier
	logger      *slog.Logger
	mux         *http.ServeMux
	rateLimiter *RateLimiter

	mu      sync.Mutex
	server  *http.Server
	running bool
}

func NewServer(addr, authToken string, runner TurnRunner, notifier application.Notifier, logger *slog.Logger) *Server {
	s := &Server{
		addr:        addr,
		authToken:   authToken,
		runner:      runner,
		notifier:    notifier,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 requests per minute per IP
	}
	s.mux.HandleFunc("POST /command", s.rateLimiter.Middleware(s.handleCommand))
	// No rate limiting on health check
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // a turn waits on the LLM
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("command server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}

	s.running = false
	return nil
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.authToken != "" {
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			s.logger.Warn("unauthorized command request", "remote_addr", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var req domain.TurnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Message == "" && len(req.UndoSnapshots) == 0 {
		http.Error(w, "empty command", http.StatusBadRequest)
		return
	}

	resp := s.runner.RunTurn(r.Context(), req)

	if resp.Response != "" {
		// Best-effort; a failed notification never fails the turn.
		go func(text string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.Notify(ctx, text); err != nil {
				s.logger.Warn("notifying turn result failed", "error", err)
			}
		}(resp.Response)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK
	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}
