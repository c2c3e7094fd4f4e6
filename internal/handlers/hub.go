package handlers

import (
	"card-casino-go/internal/session"
	ws "card-casino-go/pkg/websocket"
)

// hubProvider is set by main at startup so committed snapshots reach websocket clients.
var hubProvider func() (*ws.Hub, bool)

func SetHubProvider(p func() (*ws.Hub, bool)) {
	hubProvider = p
}

const eventState = "state"

// SessionPublisher broadcasts every committed snapshot to the session's room.
func SessionPublisher() session.Publisher {
	return session.PublisherFunc(func(sessionID string, snap session.Snapshot) {
		if hubProvider == nil {
			return
		}
		hub, ok := hubProvider()
		if !ok || hub == nil {
			return
		}
		hub.Broadcast(ws.SessionRoom(sessionID), eventState, snap)
	})
}
