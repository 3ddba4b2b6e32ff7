package server

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client is one websocket subscriber. Frames are queued on send and written by writePump.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans encoded frames out to every subscribed client.
// A client whose queue is full when a frame arrives is dropped rather than stalling the others.
type hub struct {
	mu *sync.Mutex

	clients   map[*client]struct{}
	last      []byte
	queueSize int
	closed    bool
}

func newHub(queueSize int) *hub {
	return &hub{
		mu:        &sync.Mutex{},
		clients:   make(map[*client]struct{}),
		queueSize: queueSize,
	}
}

// register adds a client and queues the most recent frame for it.
// Returns nil if the hub has been closed.
func (h *hub) register(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	c := &client{conn: conn, send: make(chan []byte, h.queueSize)}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	return c
}

// unregister removes a client and closes its queue. Safe to call more than once.
func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop removes c. Caller must hold the lock.
func (h *hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[Server] dropping slow client %v", remoteAddr(c))
			h.drop(c)
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close drops every client and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

// writePump writes queued frames and periodic pings until the queue is closed or a write fails.
func (h *hub) writePump(c *client, pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.unregister(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[Server] ws write frame error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[Server] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump discards client messages and keeps the read deadline alive on pongs.
// It returns when the peer goes away, which unregisters the client.
func (h *hub) readPump(c *client, pingInterval time.Duration) {
	defer h.unregister(c)

	wait := pingInterval * 2
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func remoteAddr(c *client) string {
	if c.conn == nil {
		return "<detached>"
	}
	return c.conn.RemoteAddr().String()
}
