package host

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bonsairobo/baton/internal/config"
	"github.com/bonsairobo/baton/internal/protocol"
	"github.com/bonsairobo/baton/internal/relay"
	"github.com/bonsairobo/baton/internal/relaylog"
	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, baseURL, room string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/rooms/" + room
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readRelayFrame(t *testing.T, conn *websocket.Conn) protocol.PeerSocketMessage {
	t.Helper()
	messageType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := protocol.DecodeRelay(protocol.Frame{Binary: messageType == websocket.BinaryMessage, Data: data})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestIntegrationBroadcastAcrossTwoConnections(t *testing.T) {
	router := relay.NewRouter(64, relaylog.New())
	go router.Run()

	srv := New(router, config.Default(), nil)
	testSrv := httptest.NewServer(http.HandlerFunc(srv.handleUpgrade))
	defer testSrv.Close()

	connA := dialRoom(t, testSrv.URL, "foo")
	defer connA.Close()

	// connA is alone; give the router a moment to process AddPeer before
	// connB joins, so the join-pair each side sees is unambiguous.
	waitForPeers(t, router, 1)

	connB := dialRoom(t, testSrv.URL, "foo")
	defer connB.Close()

	// connA should observe exactly one PeerJoined(B).
	joinedOnA := readRelayFrame(t, connA)
	if joinedOnA.Kind != protocol.FromRelayKind || joinedOnA.Event.Kind != protocol.PeerJoined {
		t.Fatalf("expected PeerJoined on connA, got %+v", joinedOnA)
	}
	// connB should observe exactly one PeerJoined(A).
	joinedOnB := readRelayFrame(t, connB)
	if joinedOnB.Kind != protocol.FromRelayKind || joinedOnB.Event.Kind != protocol.PeerJoined {
		t.Fatalf("expected PeerJoined on connB, got %+v", joinedOnB)
	}

	if err := connA.WriteMessage(websocket.TextMessage, []byte("broadcast:\n\nhello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	forwarded := readRelayFrame(t, connB)
	if forwarded.Kind != protocol.FromPeerKind || forwarded.Peer.Content.Text != "hello" {
		t.Fatalf("expected connB to receive the broadcast payload, got %+v", forwarded)
	}
}

func waitForPeers(t *testing.T, r *relay.Router, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Stats().TotalPeers >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d peers", n)
}
