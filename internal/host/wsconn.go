package host

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// wsConn adapts a *websocket.Conn to relay.PeerConn. gorilla/websocket
// connections are not safe for concurrent writers, so every write
// (frames and control pings alike) goes through writeMu — the same
// ThreadSafeWriter discipline the teacher's ws package used.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadMessage() (binary bool, data []byte, err error) {
	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		return false, nil, err
	}
	return messageType == websocket.BinaryMessage, data, nil
}

func (c *wsConn) WriteMessage(binary bool, data []byte) error {
	messageType := websocket.TextMessage
	if binary {
		messageType = websocket.BinaryMessage
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *wsConn) writePing() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// runKeepalive mirrors the teacher's ping/pong loop: a server-side ping
// every pingPeriod, closing the connection if a ping ever fails to send.
// The pong handler installed in handleUpgrade extends the read deadline.
func runKeepalive(c *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				c.Close()
				return
			}
		case <-done:
			return
		}
	}
}
