// Package hub pushes kiosk events to connected pages over websockets.
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Pages only send control frames; anything larger is dropped.
	maxMessageSize = 4 * 1024

	sendBuffer = 16
)

// Event types understood by the page script.
const (
	EventView       = "view"
	EventLayout     = "layout"
	EventBackground = "background"
	EventReloaded   = "reloaded"
)

// Event is one push message.
type Event struct {
	Type       string         `json:"type"`
	View       string         `json:"view,omitempty"`
	Layout     *layout.Result `json:"layout,omitempty"`
	URL        string         `json:"url,omitempty"`
	Generation uint64         `json:"generation,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected pages and fans events out to them. Slow clients whose
// buffer is full are dropped rather than blocking the broadcaster.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	onJoin  func() []Event
}

// New constructs an empty Hub.
func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// OnJoin sets a function whose events are sent to each new client first, so a
// page that connects mid-rotation catches up.
func (h *Hub) OnJoin(fn func() []Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onJoin = fn
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends ev to every connected page.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Error(h.logger, "encode hub event", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logging.Warn(h.logger, "dropping slow websocket client", slog.String("client_id", c.id))
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logger, "websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.RLock()
	onJoin := h.onJoin
	h.mu.RUnlock()
	// Catch-up events are queued before the client is visible to Broadcast.
	if onJoin != nil {
		for _, ev := range onJoin() {
			if len(c.send) == cap(c.send) {
				break
			}
			if data, err := json.Marshal(ev); err == nil {
				c.send <- data
			}
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logging.Debug(logger, "websocket client joined", slog.String("client_id", c.id))

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards page messages; it exists to process pongs and notice close.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug(h.logger, "websocket closed", slog.String("client_id", c.id), slog.Any("error", err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
