package relay

import "github.com/bonsairobo/baton/internal/protocol"

// registry is the RoomRegistry of spec.md §3: room_id -> (peer_id ->
// sink). It is only ever touched from the router's single goroutine —
// no field here is protected by a lock, because none needs to be.
type registry struct {
	rooms map[string]map[string]*Sink
}

func newRegistry() *registry {
	return &registry{rooms: make(map[string]map[string]*Sink)}
}

func joinedEvent(peerID string) protocol.PeerSocketMessage {
	return protocol.FromRelay(protocol.RoomEvent{Kind: protocol.PeerJoined, PeerID: peerID})
}

func leftEvent(peerID string) protocol.PeerSocketMessage {
	return protocol.FromRelay(protocol.RoomEvent{Kind: protocol.PeerLeft, PeerID: peerID})
}

// addPeer creates the room on first use, notifies every existing peer of
// the arrival, notifies the arrival of every existing peer, then inserts
// it. Both notification passes happen before this call returns, which is
// what gives the join-pair its atomicity w.r.t. other router requests.
func (reg *registry) addPeer(l *dropLogger, roomID, peerID string, sink *Sink) {
	room, ok := reg.rooms[roomID]
	if !ok {
		room = make(map[string]*Sink)
		reg.rooms[roomID] = room
	}
	for existingID, existingSink := range room {
		l.push(existingSink, joinedEvent(peerID), roomID, existingID)
		l.push(sink, joinedEvent(existingID), roomID, peerID)
	}
	room[peerID] = sink
}

// removePeer deletes peerID from roomID (a no-op if either is absent)
// and notifies every remaining peer. An empty room is deleted rather
// than retained, per spec.md §9's resolution of the empty-room-GC open
// question.
func (reg *registry) removePeer(l *dropLogger, roomID, peerID string) {
	room, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	if _, present := room[peerID]; !present {
		return
	}
	delete(room, peerID)
	for remainingID, remainingSink := range room {
		l.push(remainingSink, leftEvent(peerID), roomID, remainingID)
	}
	if len(room) == 0 {
		delete(reg.rooms, roomID)
	}
}

// relay computes the recipient set for a RelayPeerMessage request and
// pushes a FromPeer event to each. An unknown room is a silent no-op.
func (reg *registry) relay(l *dropLogger, roomID, from string, dest protocol.Destination, content protocol.RawContent) {
	room, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	msg := protocol.FromPeer(protocol.ReceivedPeerMessage{From: from, Content: content})

	switch dest.Kind {
	case protocol.DestBroadcast:
		for peerID, sink := range room {
			if peerID == from {
				continue
			}
			l.push(sink, msg, roomID, peerID)
		}
	case protocol.DestPeerSet:
		for _, id := range dest.PeerIDs {
			if sink, present := room[id]; present {
				l.push(sink, msg, roomID, id)
			}
		}
	}
}

// RoomStats is one room's contribution to a Stats snapshot.
type RoomStats struct {
	RoomID    string `json:"room_id"`
	PeerCount int    `json:"peer_count"`
}

// Stats is a read-only snapshot of registry membership, computed inline
// by the router so it never races with a mutation.
type Stats struct {
	Rooms      []RoomStats `json:"rooms"`
	TotalRooms int         `json:"total_rooms"`
	TotalPeers int         `json:"total_peers"`
}

func (reg *registry) stats() Stats {
	s := Stats{Rooms: make([]RoomStats, 0, len(reg.rooms))}
	for roomID, room := range reg.rooms {
		s.Rooms = append(s.Rooms, RoomStats{RoomID: roomID, PeerCount: len(room)})
		s.TotalPeers += len(room)
	}
	s.TotalRooms = len(s.Rooms)
	return s
}
