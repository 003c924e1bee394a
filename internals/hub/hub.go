// Package hub fans committed state snapshots out to websocket subscribers.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/thebowwman/fleetflow/internals/domain"
)

// Event is the wire envelope pushed to subscribers.
type Event struct {
	Event  string          `json:"event"`
	Type   string          `json:"type"`
	Data   domain.Snapshot `json:"data"`
	SentAt time.Time       `json:"sent_at"`
}

// Hub holds the current subscriber set. Subscriber lifecycle (upgrade,
// close) belongs to the transport layer; the hub only sends.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func New() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes one committed snapshot version to every subscriber.
// The payload is marshalled once and sent sequentially, so a stalled
// subscriber can hold up the broadcast for its write timeout before the
// remaining clients are served.
func (h *Hub) Broadcast(kind string, snap domain.Snapshot) {
	b, err := json.Marshal(Event{Event: "data_update", Type: kind, Data: snap, SentAt: time.Now().UTC()})
	if err != nil {
		return
	}

	h.mu.RLock()
	for c := range h.clients {
		c.Send(b)
	}
	h.mu.RUnlock()
}

// Client wraps one websocket connection with serialized writes.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Send(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = c.conn.Write(ctx, websocket.MessageText, b)
}

// SendEvent marshals and sends a single event to this client only, used for
// the on-connect snapshot push.
func (c *Client) SendEvent(kind string, snap domain.Snapshot) {
	b, err := json.Marshal(Event{Event: "data_update", Type: kind, Data: snap, SentAt: time.Now().UTC()})
	if err != nil {
		return
	}
	c.Send(b)
}
