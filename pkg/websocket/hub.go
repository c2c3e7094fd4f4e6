package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Hub manages websocket clients and room-based broadcasts. All room bookkeeping happens on the
// Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Broadcast

	stop     chan struct{}
	stopOnce sync.Once

	rooms map[string]map[*Client]bool
}

type Broadcast struct {
	Room    string
	Type    string
	Payload any
}

// Envelope is the wire shape of every server-sent message.
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Broadcast, 256),
		stop:       make(chan struct{}),
		rooms:      map[string]map[*Client]bool{},
	}
}

// Run processes hub events until Stop is called. On stop every client's send channel is closed.
func (h *Hub) Run() {
	defer h.closeAll()
	for {
		select {
		case <-h.stop:
			return
		case c := <-h.register:
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = map[*Client]bool{}
			}
			h.rooms[c.Room][c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case b := <-h.broadcast:
			h.broadcastToRoom(b.Room, b.Type, b.Payload)
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stop:
		c.closeSend()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
	}
}

// Broadcast queues a message for a room. It never blocks the caller: when the queue is full the
// message is dropped, and clients recover on the next state event.
func (h *Hub) Broadcast(room, typ string, payload any) {
	select {
	case h.broadcast <- Broadcast{Room: room, Type: typ, Payload: payload}:
	case <-h.stop:
	default:
		logrus.WithFields(logrus.Fields{"room": room, "type": typ}).Warn("ws broadcast queue full")
	}
}

func (h *Hub) removeClient(c *Client) {
	if c == nil {
		return
	}
	if clients := h.rooms[c.Room]; clients != nil {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.Room)
		}
	}
	c.closeSend()
}

func (h *Hub) closeAll() {
	for _, clients := range h.rooms {
		for c := range clients {
			c.closeSend()
		}
	}
	h.rooms = map[string]map[*Client]bool{}
}

func Encode(typ string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Hub) broadcastToRoom(room, typ string, payload any) {
	clients := h.rooms[room]
	if len(clients) == 0 {
		return
	}

	data, err := Encode(typ, payload)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room": room, "type": typ}).Error("ws broadcast marshal")
		return
	}

	for c := range clients {
		select {
		case c.Send <- data:
		default:
			// Backpressure / dead client.
			h.removeClient(c)
		}
	}
}
