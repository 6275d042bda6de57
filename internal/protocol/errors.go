package protocol

import "errors"

// The codec reports exactly these four permanent error kinds. Callers
// (the connection handler) log and drop the offending frame; none of
// them are recoverable by retrying the same bytes.
var (
	// ErrInvalidDelimiter is returned when a header line has no ':'
	// separating a key from its value.
	ErrInvalidDelimiter = errors.New("protocol: header line missing ':' delimiter")

	// ErrInvalidHeaderEncoding is returned when a binary frame's header
	// section is not valid UTF-8.
	ErrInvalidHeaderEncoding = errors.New("protocol: header section is not valid UTF-8")

	// ErrNoRecipients is returned decoding a client-sent message that has
	// neither a "broadcast" header nor any "to" headers.
	ErrNoRecipients = errors.New("protocol: no recipients")

	// ErrUnknownHeader is returned decoding a relay-sent message whose
	// headers contain none of peer_joined, peer_left, message_from.
	ErrUnknownHeader = errors.New("protocol: no recognized header")
)
