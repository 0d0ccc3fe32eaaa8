package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client is one connected browser. gorilla/websocket allows a single
// concurrent writer, so writes are serialized by mu.
type client struct {
	conn    *websocket.Conn
	id      string
	timeout time.Duration

	mu sync.Mutex
}

func (c *client) write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	return c.conn.WriteJSON(f)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.conn.Close()
}
