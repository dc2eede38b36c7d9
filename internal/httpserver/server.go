// Package httpserver exposes the minimal control interface: the current
// artifact, a status snapshot, and a token-gated fetch trigger.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"coverd/internal/config"
	"coverd/internal/status"
)

// Trigger starts an out-of-band fetch. It must return immediately.
type Trigger interface {
	TriggerFetch()
}

// Server serves the control endpoints. It never writes state itself; all
// mutation goes through the Trigger.
type Server struct {
	logger  *zap.Logger
	cfg     *config.Config
	store   *status.Store
	trigger Trigger
	srv     *http.Server
}

// New builds the server and its routes.
func New(logger *zap.Logger, cfg *config.Config, store *status.Store, trigger Trigger) *Server {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		trigger: trigger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /current.jpg", s.handleCurrent)
	mux.HandleFunc("GET /status.json", s.handleStatus)
	mux.HandleFunc("POST /fetch", s.handleFetch)

	s.srv = &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: mux,
	}
	return s
}

// Start binds the listener and serves in the background. A bind failure is
// returned to the caller and is fatal for the process.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("bind control interface %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("control interface listening", zap.String("addr", s.srv.Addr))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control interface failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down, letting in-flight requests drain until ctx
// expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.ArtifactPath())
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "no artifact yet", http.StatusNotFound)
			return
		}
		s.logger.Error("artifact read failed", zap.Error(err))
		http.Error(w, "artifact unreadable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.store.Snapshot()); err != nil {
		s.logger.Error("status encode failed", zap.Error(err))
	}
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	// An unset token disables the endpoint entirely rather than opening it.
	if s.cfg.HTTP.Token == "" || token == "" || token != s.cfg.HTTP.Token {
		s.logger.Warn("fetch trigger rejected", zap.String("remote", r.RemoteAddr))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	s.trigger.TriggerFetch()
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "fetching")
}
