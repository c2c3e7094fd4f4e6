package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Client is a single websocket connection subscribed to one session room.
type Client struct {
	Conn *websocket.Conn
	Hub  *Hub

	Room      string
	SessionID string

	sendCloseOnce sync.Once
	Send          chan []byte
}

func NewClient(conn *websocket.Conn, hub *Hub, sessionID string) *Client {
	return &Client{
		Conn:      conn,
		Hub:       hub,
		Room:      SessionRoom(sessionID),
		SessionID: sessionID,
		Send:      make(chan []byte, sendBuffer),
	}
}

// SessionRoom names the room that receives a session's state events.
func SessionRoom(sessionID string) string { return "session:" + sessionID }

func (c *Client) closeSend() {
	c.sendCloseOnce.Do(func() { close(c.Send) })
}

// ReadPump drains inbound frames so control messages are processed. Clients never send
// commands over the socket; onMessage receives anything they do send.
func (c *Client) ReadPump(onMessage func([]byte)) {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("session_id", c.SessionID).Debug("ws read")
			}
			return
		}
		if onMessage != nil {
			onMessage(message)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithError(err).WithField("session_id", c.SessionID).Debug("ws ping")
				return
			}
		}
	}
}
