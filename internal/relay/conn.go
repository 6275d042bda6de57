package relay

// PeerConn is the abstract connection capability spec.md §1 requires:
// something that can read and write discrete text/binary frames and
// report closure. internal/host's websocket adapter implements this;
// tests implement it with an in-memory fake.
type PeerConn interface {
	// ReadMessage blocks for the next frame. binary reports whether it
	// arrived on a binary frame. A non-nil error means the connection is
	// done — the handler treats any error, including a clean close, as
	// "disconnected".
	ReadMessage() (binary bool, data []byte, err error)

	// WriteMessage sends one frame. Implementations must be safe to call
	// from a single dedicated writer goroutine; the handler never calls
	// it concurrently with itself.
	WriteMessage(binary bool, data []byte) error

	// Close unblocks a concurrent ReadMessage and releases the
	// connection's resources. Safe to call more than once.
	Close() error
}
