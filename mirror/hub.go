package mirror

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// client is one connected display.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the latest frame and pushes every new one to all connected
// clients. Publishing never blocks: a client whose buffer is full misses the
// frame and catches up with the next one. Hub methods are safe for concurrent
// use, but Attach and Detach must be called on the goroutine that owns the
// deck.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	seq     uint64
	last    Frame
	hasLast bool
	closed  bool

	unsubscribe func()
	upgrader    websocket.Upgrader
}

// NewHub returns a hub with no deck attached.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Displays are usually opened from a file or another host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Attach subscribes the hub to d and publishes d's current slide right away.
// Any previously attached deck is detached.
func (h *Hub) Attach(d *goslides.Deck) {
	h.Detach()
	h.unsubscribe = d.Subscribe(func(ev goslides.Event) {
		switch ev.Kind {
		case goslides.EventCurrentSlideChanged, goslides.EventReset:
			h.Publish(NewFrame(d, ev.Slide, ev.Kind))
		case goslides.EventRequestDrawPreview, goslides.EventRatioChanged:
			// Only the live slide matters to the audience.
			if cur := d.Current(); cur != nil && ev.Slide == cur {
				h.Publish(NewFrame(d, cur, ev.Kind))
			}
		}
	}, goslides.EventCurrentSlideChanged, goslides.EventReset,
		goslides.EventRequestDrawPreview, goslides.EventRatioChanged)
	h.Publish(NewFrame(d, d.Current(), goslides.EventCurrentSlideChanged))
}

// Detach stops following the attached deck, if any.
func (h *Hub) Detach() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Publish stamps f with the next sequence number, stores it as the latest
// frame and queues it for every client.
func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.seq++
	f.Seq = h.seq
	h.last = f
	h.hasLast = true

	msg, err := json.Marshal(f)
	if err != nil {
		goslides.Logger().Warn("mirror frame not encodable", "seq", f.Seq, "error", err)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			goslides.Logger().Debug("mirror client is behind, dropping frame", "seq", f.Seq)
		}
	}
}

// Last returns the most recently published frame.
func (h *Hub) Last() (Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.hasLast
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request to a websocket and streams frames to it,
// starting with the latest one.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		goslides.Logger().Warn("mirror upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	goslides.Logger().Debug("mirror client connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// register adds c and queues the latest frame for it under the same lock, so
// a client never misses a frame published while it connects.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	if h.hasLast {
		if msg, err := json.Marshal(h.last); err == nil {
			c.send <- msg
		}
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				goslides.Logger().Debug("mirror client read failed", "error", err)
			}
			return
		}
	}
}

// writePump is the only writer on c.conn.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
