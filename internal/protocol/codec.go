package protocol

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Frame is a raw WebSocket text or binary payload, as produced by
// encoding or consumed by decoding. It carries no routing information
// of its own — Binary just mirrors which WebSocket frame type the bytes
// belong to.
type Frame struct {
	Binary bool
	Data   []byte
}

const headerBodySep = "\n\n"

type headerField struct {
	Key   string
	Value string
}

// EncodeSent frames a client-to-relay message: either a "broadcast:"
// header or one "to: <id>" line per recipient, then the body.
func EncodeSent(msg SentPeerMessage) Frame {
	var lines []string
	switch msg.Destination.Kind {
	case DestBroadcast:
		lines = []string{"broadcast:"}
	case DestPeerSet:
		for _, id := range msg.Destination.PeerIDs {
			lines = append(lines, "to: "+id)
		}
	}
	return buildFrame(strings.Join(lines, "\n"), msg.Content)
}

// EncodeReceived frames a relay-to-client forwarded payload with a
// single "message_from:" header.
func EncodeReceived(msg ReceivedPeerMessage) Frame {
	return buildFrame("message_from:"+msg.From, msg.Content)
}

// EncodeEvent frames a presence notification. It is always text, has no
// body, and no trailing header/body separator.
func EncodeEvent(ev RoomEvent) Frame {
	var header string
	switch ev.Kind {
	case PeerJoined:
		header = "peer_joined:" + ev.PeerID
	case PeerLeft:
		header = "peer_left:" + ev.PeerID
	}
	return Frame{Binary: false, Data: []byte(header)}
}

// Encode frames whichever shape of PeerSocketMessage is given, mirroring
// what a connection handler writes out for a delivered sink message.
func Encode(msg PeerSocketMessage) Frame {
	switch msg.Kind {
	case FromPeerKind:
		return EncodeReceived(msg.Peer)
	default:
		return EncodeEvent(msg.Event)
	}
}

func buildFrame(header string, content RawContent) Frame {
	switch content.Kind {
	case ContentBinary:
		data := make([]byte, 0, len(header)+2+len(content.Binary))
		data = append(data, header...)
		data = append(data, '\n', '\n')
		data = append(data, content.Binary...)
		return Frame{Binary: true, Data: data}
	default:
		return Frame{Binary: false, Data: []byte(header + headerBodySep + content.Text)}
	}
}

// DecodeSent parses a client-sent frame into routing metadata plus
// content.
func DecodeSent(frame Frame) (SentPeerMessage, error) {
	headerBytes, bodyBytes := splitHeaderBody(frame.Data)
	fields, err := parseHeaders(headerBytes, frame.Binary)
	if err != nil {
		return SentPeerMessage{}, err
	}

	broadcast := false
	var ids []string
	for _, f := range fields {
		switch f.Key {
		case "broadcast":
			broadcast = true
		case "to":
			ids = append(ids, f.Value)
		}
	}

	var dest Destination
	switch {
	case broadcast:
		dest = Destination{Kind: DestBroadcast}
	case len(ids) > 0:
		dest = Destination{Kind: DestPeerSet, PeerIDs: ids}
	default:
		return SentPeerMessage{}, ErrNoRecipients
	}

	return SentPeerMessage{Destination: dest, Content: contentFromBody(frame.Binary, bodyBytes)}, nil
}

// DecodeRelay parses a relay-sent frame into whichever PeerSocketMessage
// shape its first recognized header selects.
func DecodeRelay(frame Frame) (PeerSocketMessage, error) {
	headerBytes, bodyBytes := splitHeaderBody(frame.Data)
	fields, err := parseHeaders(headerBytes, frame.Binary)
	if err != nil {
		return PeerSocketMessage{}, err
	}

	for _, f := range fields {
		switch f.Key {
		case "peer_joined":
			return FromRelay(RoomEvent{Kind: PeerJoined, PeerID: f.Value}), nil
		case "peer_left":
			return FromRelay(RoomEvent{Kind: PeerLeft, PeerID: f.Value}), nil
		case "message_from":
			return FromPeer(ReceivedPeerMessage{
				From:    f.Value,
				Content: contentFromBody(frame.Binary, bodyBytes),
			}), nil
		}
	}
	return PeerSocketMessage{}, ErrUnknownHeader
}

func splitHeaderBody(data []byte) (header, body []byte) {
	idx := bytes.Index(data, []byte(headerBodySep))
	if idx == -1 {
		return data, nil
	}
	return data[:idx], data[idx+len(headerBodySep):]
}

func parseHeaders(headerBytes []byte, binaryFrame bool) ([]headerField, error) {
	if binaryFrame && !utf8.Valid(headerBytes) {
		return nil, ErrInvalidHeaderEncoding
	}
	var fields []headerField
	for _, line := range strings.Split(string(headerBytes), "\n") {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx == -1 {
			return nil, ErrInvalidDelimiter
		}
		fields = append(fields, headerField{
			Key:   strings.TrimSpace(line[:idx]),
			Value: strings.TrimSpace(line[idx+1:]),
		})
	}
	return fields, nil
}

func contentFromBody(binaryFrame bool, body []byte) RawContent {
	if binaryFrame {
		cp := make([]byte, len(body))
		copy(cp, body)
		return Binary(cp)
	}
	return Text(string(body))
}
