package status

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	clientSendSize = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to every connected websocket client. A client
// whose buffer is full is dropped rather than slowing the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		mu:      sync.Mutex{},
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Register starts the write pump for conn. first, if non-nil, is queued
// before any broadcast.
func (h *Hub) Register(conn *websocket.Conn, first []byte) {
	c := &client{conn: conn, send: make(chan []byte, clientSendSize)}

	if first != nil {
		c.send <- first
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("Dropping slow websocket client", zap.String("remote", c.conn.RemoteAddr().String()))
			h.removeLocked(c)
		}
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)

			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)

			return
		}
	}
}
