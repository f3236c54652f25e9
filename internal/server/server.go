// Package server serves the explorer page, the rendered scatter and a JSON
// API over one immutable dataset. Each request recomputes its selection.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"value-scout/internal/dataset"
)

// Server wires the dataset to HTTP routes.
type Server struct {
	data   *dataset.Dataset
	logger *slog.Logger
	router *mux.Router
}

// New builds the router for ds.
func New(ds *dataset.Dataset, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{data: ds, logger: logger, router: mux.NewRouter()}
	s.routes()

	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID, s.accessLog)

	r.HandleFunc("/", s.homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/plot.{format}", s.plotHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/players", s.playersHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/positions", s.positionsHandler).Methods(http.MethodGet)

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for at most shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("value-scout is running", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
