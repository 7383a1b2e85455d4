// # internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status is the health payload: an overall verdict plus per-component
// detail.
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// StatusFunc produces the current health snapshot.
type StatusFunc func(ctx context.Context) Status

// Server serves the generated site together with the operational
// endpoints: /metrics for Prometheus and /health for probes.
type Server struct {
	addr    string
	siteDir string
	status  StatusFunc
	server  *http.Server
}

func New(addr, siteDir string, status StatusFunc) *Server {
	return &Server{addr: addr, siteDir: siteDir, status: status}
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		st := s.status(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if st.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(st)
	})

	// Generated site
	mux.Handle("/", http.FileServer(http.Dir(s.siteDir)))

	return mux
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.handler(),
	}

	slog.Info("site server starting", "addr", s.addr, "dir", s.siteDir)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("site server failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
