package relay

import (
	"sync"

	"github.com/bonsairobo/baton/internal/protocol"
)

// Sink is the delivery endpoint a connection handler exposes to the
// router: a single-producer (router), single-consumer (handler) queue.
// The router holds a non-owning reference to it; the handler owns its
// lifetime and is the only one that may Close it.
type Sink struct {
	mu     sync.Mutex
	ch     chan protocol.PeerSocketMessage
	closed bool
}

// NewSink creates a sink with the given bounded capacity. A capacity of
// 0 makes every push non-blocking-but-immediately-saturated unless a
// reader is ready, which is legal but rarely what callers want; callers
// should prefer internal/config's SinkBufferSize default.
func NewSink(capacity int) *Sink {
	return &Sink{ch: make(chan protocol.PeerSocketMessage, capacity)}
}

// push delivers msg without blocking. It reports whether the message
// was enqueued; false covers both "queue is full" (drop-newest) and
// "sink already closed" (closed sinks are tolerated but drop messages,
// per spec). It is safe to call concurrently with Close.
func (s *Sink) push(msg protocol.PeerSocketMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Messages returns the channel a handler's writer loop ranges over.
// The channel is closed when Close is called.
func (s *Sink) Messages() <-chan protocol.PeerSocketMessage {
	return s.ch
}

// Close marks the sink dead and closes its channel so a ranging reader
// observes end-of-stream. Safe to call more than once.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
