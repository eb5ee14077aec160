// Package server provides the per-agent HTTP endpoint exposing health and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/version"
)

// Server is the HTTP server for an agent's operational endpoints.
type Server struct {
	agentName  string
	log        *logrus.Logger
	httpServer *http.Server
}

// New creates a server listening on addr.
func New(addr, agentName string, log *logrus.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{agentName: agentName, log: log}
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("Agent HTTP endpoint listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"agent":   s.agentName,
		"version": version.Version,
	})
}
