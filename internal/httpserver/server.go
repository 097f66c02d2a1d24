package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placement-admin/internal/metrics"
	"placement-admin/internal/repo"
	"placement-admin/internal/session"
)

// Server wraps an http.Server with the admin panel routes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *metrics.Metrics
	repo       repo.Repository
	sessions   session.Store
}

// New creates a new HTTP server listening on addr.
func New(addr string, logger *slog.Logger, metricRegistry *metrics.Metrics, repository repo.Repository, sessions session.Store) *Server {
	server := &Server{
		logger:   logger.With("component", "http"),
		metrics:  metricRegistry,
		repo:     repository,
		sessions: sessions,
	}

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /login", server.handleLoginPage)
	mux.HandleFunc("POST /login", server.handleLogin)
	mux.HandleFunc("GET /logout", server.handleLogout)
	mux.HandleFunc("GET /dashboard", server.requirePage(server.handleDashboard))

	// Admin credentials (public by contract)
	mux.HandleFunc("GET /api/admin/credentials", server.handleGetCredentials)
	mux.HandleFunc("POST /api/admin/change-credentials", server.handleChangeCredentials)

	// Clients. The literal /clear pattern takes precedence over {id}.
	mux.HandleFunc("GET /api/clients", server.requireAPI(server.handleListClients))
	mux.HandleFunc("POST /api/clients", server.requireAPI(server.handleCreateClient))
	mux.HandleFunc("DELETE /api/clients/clear", server.requireAPI(server.handleClearClients))
	mux.HandleFunc("GET /api/clients/{id}", server.requireAPI(server.handleGetClient))
	mux.HandleFunc("PUT /api/clients/{id}", server.requireAPI(server.handleUpdateClient))
	mux.HandleFunc("DELETE /api/clients/{id}", server.requireAPI(server.handleDeleteClient))

	mux.HandleFunc("GET /api/stats", server.requireAPI(server.handleStats))

	mux.HandleFunc("GET /health", server.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	server.httpServer = &http.Server{
		Addr:              addr,
		Handler:           server.withMetrics(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server
}

// Start begins listening for incoming HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": s.repo.Dialect(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode json", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
