// Package relay implements the relay's concurrency hub: one router
// goroutine owning all room state, and the per-connection Handler that
// talks to it. Nothing here does wire framing — that is protocol's job —
// and nothing here terminates the process; a Handler's failures are its
// own, never the router's.
package relay

import (
	"github.com/bonsairobo/baton/internal/protocol"
	"github.com/bonsairobo/baton/internal/relaylog"
)

// dropLogger centralizes the "sink push saturation: drop, log at warn"
// policy from spec.md §7 so registry's methods stay free of logging
// concerns.
type dropLogger struct {
	logger *relaylog.Logger
}

func (l *dropLogger) push(sink *Sink, msg protocol.PeerSocketMessage, roomID, peerID string) {
	if sink.push(msg) {
		return
	}
	l.logger.Warn("dropped event: sink saturated or closed", relaylog.Fields{
		"room_id": roomID,
		"peer_id": peerID,
	})
}

type addPeerRequest struct {
	roomID, peerID string
	sink           *Sink
}

type removePeerRequest struct {
	roomID, peerID string
}

type relayRequest struct {
	roomID, from string
	dest         protocol.Destination
	content      protocol.RawContent
}

type statsRequest struct {
	reply chan Stats
}

// Router is the single logical owner of all room state. Exactly one
// goroutine should call Run; every other goroutine talks to it only
// through AddPeer, RemovePeer, RelayPeerMessage and Stats, which enqueue
// a request and return once it is queued, blocking only while the queue
// is full (Stats also waits for its reply, but does not mutate anything).
type Router struct {
	requests chan any
	logger   *relaylog.Logger
}

// NewRouter creates a Router with the given inbound request queue depth
// and logger. The queue depth only bounds memory under load; it has no
// effect on ordering or correctness since the router drains it strictly
// FIFO.
func NewRouter(queueDepth int, logger *relaylog.Logger) *Router {
	if logger == nil {
		logger = relaylog.New()
	}
	return &Router{requests: make(chan any, queueDepth), logger: logger}
}

// Run processes requests until the queue is never read again — there is
// no cancellation, by design: spec.md §5 gives the router no lifecycle
// beyond process lifetime. Run a single instance of this per process in
// its own goroutine.
func (r *Router) Run() {
	reg := newRegistry()
	drop := &dropLogger{logger: r.logger}
	for req := range r.requests {
		switch m := req.(type) {
		case addPeerRequest:
			reg.addPeer(drop, m.roomID, m.peerID, m.sink)
		case removePeerRequest:
			reg.removePeer(drop, m.roomID, m.peerID)
		case relayRequest:
			reg.relay(drop, m.roomID, m.from, m.dest, m.content)
		case statsRequest:
			m.reply <- reg.stats()
		}
	}
}

// AddPeer enqueues an AddPeer request. See spec.md §4.3 for its effect.
func (r *Router) AddPeer(roomID, peerID string, sink *Sink) {
	r.requests <- addPeerRequest{roomID: roomID, peerID: peerID, sink: sink}
}

// RemovePeer enqueues a RemovePeer request. A missing room or peer is a
// silent no-op, handled inside the router goroutine.
func (r *Router) RemovePeer(roomID, peerID string) {
	r.requests <- removePeerRequest{roomID: roomID, peerID: peerID}
}

// RelayPeerMessage enqueues a RelayPeerMessage request.
func (r *Router) RelayPeerMessage(roomID, from string, dest protocol.Destination, content protocol.RawContent) {
	r.requests <- relayRequest{roomID: roomID, from: from, dest: dest, content: content}
}

// Stats enqueues a read-only snapshot request and blocks for the
// router's reply. It never mutates RoomRegistry state and competes
// fairly with mutating requests in the same inbound queue.
func (r *Router) Stats() Stats {
	reply := make(chan Stats, 1)
	r.requests <- statsRequest{reply: reply}
	return <-reply
}
