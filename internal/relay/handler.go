package relay

import (
	"context"
	"fmt"

	"github.com/bonsairobo/baton/internal/peerid"
	"github.com/bonsairobo/baton/internal/protocol"
	"github.com/bonsairobo/baton/internal/relaylog"
	"github.com/google/uuid"
)

// Handler is the per-connection component of spec.md §4.4: one instance
// per live WebSocket, translating inbound frames into router requests
// and router-delivered events into outbound frames.
type Handler struct {
	Router         *Router
	Conn           PeerConn
	RoomID         string
	SinkBufferSize int
	Logger         *relaylog.Logger

	// TraceID, if empty, is generated fresh per Run call. It is purely an
	// ambient log-correlation value (see SPEC_FULL.md §4.2) — it is never
	// sent on the wire and is not the peer id.
	TraceID string
}

// Run attaches the handler (generating a fresh peer id and registering
// with the router), pumps frames until the connection ends, then detaches
// exactly once. It blocks until both its reader and writer loops have
// exited. Cancelling ctx closes the underlying connection, which is the
// only way to interrupt a blocking ReadMessage.
func (h *Handler) Run(ctx context.Context) error {
	if h.Logger == nil {
		h.Logger = relaylog.New()
	}
	trace := h.TraceID
	if trace == "" {
		trace = uuid.NewString()
	}

	id, err := peerid.New()
	if err != nil {
		return fmt.Errorf("relay: generating peer id: %w", err)
	}

	logFields := func(extra relaylog.Fields) relaylog.Fields {
		f := relaylog.Fields{"room_id": h.RoomID, "peer_id": id, "trace_id": trace}
		for k, v := range extra {
			f[k] = v
		}
		return f
	}

	sink := NewSink(h.SinkBufferSize)
	h.Router.AddPeer(h.RoomID, id, sink)
	h.Logger.Info("peer attached", logFields(nil))

	stopWatcher := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			h.Conn.Close()
		case <-stopWatcher:
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range sink.Messages() {
			frame := protocol.Encode(msg)
			if err := h.Conn.WriteMessage(frame.Binary, frame.Data); err != nil {
				h.Logger.Error("frame write failed", logFields(relaylog.Fields{"error": err}))
				return
			}
		}
	}()

	for {
		binary, data, err := h.Conn.ReadMessage()
		if err != nil {
			break
		}
		sent, decodeErr := protocol.DecodeSent(protocol.Frame{Binary: binary, Data: data})
		if decodeErr != nil {
			h.Logger.Warn("dropping malformed frame", logFields(relaylog.Fields{"error": decodeErr}))
			continue
		}
		h.Router.RelayPeerMessage(h.RoomID, id, sent.Destination, sent.Content)
	}

	h.Router.RemovePeer(h.RoomID, id)
	sink.Close()
	close(stopWatcher)
	<-writerDone
	h.Logger.Info("peer detached", logFields(nil))
	return nil
}
