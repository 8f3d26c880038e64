package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/head/pkg/dom"
)

// MessageType represents the type of a live message.
type MessageType string

const (
	MessageHello   MessageType = "hello"
	MessagePatches MessageType = "patches"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Patches []dom.Patch `json:"patches,omitempty"`
}

// ConnectionObserver is notified when the number of connections changes.
// middleware.Metrics implements it.
type ConnectionObserver interface {
	ConnectionsChanged(count int)
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithConnectionObserver sets the connection observer.
func WithConnectionObserver(o ConnectionObserver) HubOption {
	return func(h *Hub) {
		h.observer = o
	}
}

// WithCheckOrigin sets the origin check used during the upgrade. The
// default accepts same-origin requests only.
func WithCheckOrigin(fn func(r *http.Request) bool) HubOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithWriteTimeout sets the per-message write deadline (default: 10s).
func WithWriteTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		h.writeTimeout = d
	}
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(data []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(data, timeout)
}

func (c *conn) writeLocked(data []byte, timeout time.Duration) error {
	c.ws.SetWriteDeadline(time.Now().Add(timeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Hub streams the patches of applied DOM flushes to connected browsers. It
// implements dom.PatchSink and http.Handler and is safe for concurrent use.
//
//	hub := live.NewHub()
//	client.AddPatchSink(hub)
//	http.Handle("/live", hub)
type Hub struct {
	clients      map[*conn]bool
	mu           sync.RWMutex
	seq          uint64
	upgrader     websocket.Upgrader
	logger       *slog.Logger
	observer     ConnectionObserver
	writeTimeout time.Duration
}

var _ dom.PatchSink = (*Hub)(nil)

// NewHub creates a Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[*conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:       slog.Default(),
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the browser disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("live: upgrade failed", "error", err)
		return
	}
	c := &conn{ws: ws}

	// The hello goes out before any broadcast can reach c: c.mu is held
	// from registration until it is written.
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c] = true
	hello, _ := json.Marshal(Message{Type: MessageHello, Seq: h.seq})
	count := len(h.clients)
	h.mu.Unlock()
	err = c.writeLocked(hello, h.writeTimeout)
	c.mu.Unlock()

	h.connectionsChanged(count)
	if err != nil {
		h.drop(c)
		return
	}

	// Browsers never send anything; reading detects the close.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger.Warn("live: read error", "error", err)
			}
			break
		}
	}
	h.drop(c)
}

// Patches implements dom.PatchSink by broadcasting one message per flush.
func (h *Hub) Patches(patches []dom.Patch) {
	h.mu.Lock()
	h.seq++
	msg := Message{Type: MessagePatches, Seq: h.seq, Patches: patches}
	clients := make([]*conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("live: encode patches", "error", err)
		return
	}

	for _, c := range clients {
		if err := c.write(data, h.writeTimeout); err != nil {
			h.logger.Debug("live: write failed, dropping connection", "error", err)
			h.drop(c)
		}
	}
}

// Seq returns the sequence number of the last broadcast.
func (h *Hub) Seq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seq
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		c.ws.Close()
		delete(h.clients, c)
	}
	h.mu.Unlock()
	h.connectionsChanged(0)
}

func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	c.ws.Close()
	if ok {
		h.connectionsChanged(count)
	}
}

func (h *Hub) connectionsChanged(count int) {
	if h.observer != nil {
		h.observer.ConnectionsChanged(count)
	}
}
