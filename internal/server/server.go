// Package server exposes the current snapshot over HTTP and pushes every
// new snapshot to websocket subscribers.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Refresh backs POST /refresh. Nil makes the route answer 501.
	Refresh func()
}

// Server is the query service.
type Server struct {
	httpServer *http.Server
	hub        *Hub
	log        *slog.Logger
}

// New builds a server listening on addr. Snapshots are read from store and
// every swap is broadcast to websocket clients.
func New(addr string, store *refresh.Store, catalog *gamedata.Catalog, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	hub := NewHub(log)
	store.OnSwap(hub.Broadcast)
	h := &handlers{store: store, catalog: catalog, hub: hub, refresh: opts.Refresh}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           CORS(h.routes()),
			ReadHeaderTimeout: 10 * time.Second,
		},
		hub: hub,
		log: log,
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting query server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve is Start on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("starting query server", "addr", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects websocket clients and stops the listener, waiting
// for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
