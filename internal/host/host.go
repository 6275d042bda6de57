// Package host is the external collaborator spec.md §1 deliberately
// keeps out of the core: HTTP upgrade machinery, URL routing, and the
// process-level server loop. It constructs one relay.Handler per
// WebSocket connection and leaves everything about routing/presence/
// delivery to internal/relay.
package host

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bonsairobo/baton/internal/admin"
	"github.com/bonsairobo/baton/internal/config"
	"github.com/bonsairobo/baton/internal/relay"
	"github.com/bonsairobo/baton/internal/relaylog"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Server owns the two listeners a deployed relay needs: the WebSocket
// upgrade endpoint and the read-only admin stats endpoint. It does not
// own the Router — callers start that separately, since spec.md §5 gives
// it no lifecycle to manage here.
type Server struct {
	Router   *relay.Router
	Config   config.Config
	Logger   *relaylog.Logger
	upgrader websocket.Upgrader
}

// New constructs a Server. The CheckOrigin behavior generalizes the
// teacher's websocket.Upgrader pattern: "*" allows any origin, anything
// else requires an exact match.
func New(router *relay.Router, cfg config.Config, logger *relaylog.Logger) *Server {
	if logger == nil {
		logger = relaylog.New()
	}
	s := &Server{Router: router, Config: cfg, Logger: logger}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.AllowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == cfg.AllowedOrigin
		},
	}
	return s
}

// Run starts both listeners and blocks until ctx is cancelled, then
// shuts both down gracefully. It returns nil on a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	relayMux := http.NewServeMux()
	relayMux.HandleFunc("/rooms/", s.handleUpgrade)

	adminMux := http.NewServeMux()
	adminMux.Handle("/stats", admin.New(s.Router, s.Logger))

	g, gctx := errgroup.WithContext(ctx)

	// Shutdown does not reach hijacked (upgraded) connections, so request
	// contexts derive from gctx: cancelling it ends every relay.Handler.
	relaySrv := &http.Server{
		Addr:        s.Config.RelayAddr,
		Handler:     relayMux,
		BaseContext: func(net.Listener) context.Context { return gctx },
	}
	adminSrv := &http.Server{Addr: s.Config.AdminAddr, Handler: adminMux}

	g.Go(func() error { return serveUntilShutdown(gctx, relaySrv, s.Logger, "relay") })
	g.Go(func() error { return serveUntilShutdown(gctx, adminSrv, s.Logger, "admin") })

	return g.Wait()
}

func serveUntilShutdown(ctx context.Context, srv *http.Server, logger *relaylog.Logger, name string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", relaylog.Fields{"server": name, "addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down", relaylog.Fields{"server": name})
		return srv.Shutdown(shutdownCtx)
	}
}

// handleUpgrade is the boundary named in spec.md §6: whatever path
// suffix the HTTP router hands the handler becomes the room id verbatim,
// with no normalization; the only check is that it is not empty.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimPrefix(r.URL.Path, "/rooms/")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("websocket upgrade failed", relaylog.Fields{"error": err, "room_id": roomID})
		return
	}

	wc := newWSConn(conn)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	keepaliveDone := make(chan struct{})
	go runKeepalive(wc, keepaliveDone)
	defer close(keepaliveDone)

	h := &relay.Handler{
		Router:         s.Router,
		Conn:           wc,
		RoomID:         roomID,
		SinkBufferSize: s.Config.SinkBufferSize,
		Logger:         s.Logger,
	}
	h.Run(r.Context())
}
