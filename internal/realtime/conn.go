package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn wraps one live WebSocket connection. Writes are serialized by a
// mutex and bounded by a write deadline; the transport layer owns the
// connection, the presence registry only references its ID.
type conn struct {
	id string
	ws *websocket.Conn

	writeMu      sync.Mutex
	writeTimeout time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func newConn(id string, ws *websocket.Conn, writeTimeout time.Duration) *conn {
	return &conn{
		id:           id,
		ws:           ws,
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

// write sends one prepared wire message.
func (c *conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// ping sends a keepalive control frame.
func (c *conn) ping() error {
	deadline := time.Now().Add(c.writeTimeout)
	return c.ws.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline)
}

// close stops the heartbeat and closes the socket, sending a clean
// close frame on the first call.
func (c *conn) close() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.ws.Close()
	})
}

// heartbeatLoop pings the peer until the connection is closed. A peer
// that stops answering trips the read deadline in the read loop.
func (c *conn) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
