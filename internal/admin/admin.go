// Package admin exposes a read-only operator view of room registry
// state. It never mutates anything — every handler here resolves to the
// router's Stats request, which the router answers inline alongside its
// normal AddPeer/RemovePeer/RelayPeerMessage traffic (spec.md §4.3's
// single-owner discipline is unaffected).
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/bonsairobo/baton/internal/relay"
	"github.com/bonsairobo/baton/internal/relaylog"
	"github.com/tidwall/gjson"
)

// StatsSource is the read side of *relay.Router.
type StatsSource interface {
	Stats() relay.Stats
}

// Handler serves /stats (the full snapshot) and, with ?path=, a single
// field extracted via gjson so an operator can pull e.g.
// "rooms.0.peer_count" out of a large snapshot without parsing the
// whole document client-side.
type Handler struct {
	Source StatsSource
	Logger *relaylog.Logger
}

func New(source StatsSource, logger *relaylog.Logger) *Handler {
	if logger == nil {
		logger = relaylog.New()
	}
	return &Handler{Source: source, Logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Source.Stats()
	body, err := json.Marshal(snapshot)
	if err != nil {
		h.Logger.Error("failed to marshal stats snapshot", relaylog.Fields{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if path := r.URL.Query().Get("path"); path != "" {
		result := gjson.GetBytes(body, path)
		w.Header().Set("Content-Type", "application/json")
		if !result.Exists() {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such path"}`))
			return
		}
		w.Write([]byte(result.Raw))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
