package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"card-casino-go/internal/auth"
	"card-casino-go/internal/config"
	"card-casino-go/internal/middleware"
	"card-casino-go/internal/session"
	ws "card-casino-go/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			// Non-browser clients (no Origin) are allowed.
			return true
		}
		return originPolicy.allows(origin)
	},
}

type wsOriginPolicy struct {
	mu       sync.RWMutex
	dev      bool
	allowAll bool
	allowed  map[string]bool
}

// set by main at startup
var originPolicy = &wsOriginPolicy{allowed: map[string]bool{}}

func SetWebSocketOriginPolicy(isDev bool, allowAllDev bool, origins []string) {
	originPolicy.mu.Lock()
	defer originPolicy.mu.Unlock()
	originPolicy.dev = isDev
	originPolicy.allowAll = allowAllDev
	originPolicy.allowed = map[string]bool{}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			originPolicy.allowed[o] = true
		}
	}
}

func (p *wsOriginPolicy) allows(origin string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.allowed[origin] {
		return true
	}
	if !p.dev {
		return false
	}
	if p.allowAll {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WebSocketHandler subscribes the connection to its session's state events. The first message
// is the current snapshot.
func WebSocketHandler(hubProvider func() (*ws.Hub, bool), mgr *session.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.TokenFromRequest(c)
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		s, err := mgr.Get(claims.SessionID)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		// Preconditions before attempting the upgrade so we can return HTTP errors normally.
		hub, ok := hubProvider()
		if !ok || hub == nil {
			logrus.WithField("session_id", s.ID).Error("websocket hub unavailable")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"remote": c.ClientIP(),
				"origin": c.Request.Header.Get("Origin"),
			}).Warn("websocket upgrade failed")
			return
		}

		client := ws.NewClient(conn, hub, s.ID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(func(msg []byte) {
			handleWSMessage(client, mgr, msg)
		})

		sendDirect(client, eventState, s.Snapshot())
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

// handleWSMessage answers read-only requests. Game actions go through the HTTP API.
func handleWSMessage(client *ws.Client, mgr *session.Manager, msg []byte) {
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		sendDirect(client, "error", gin.H{"error": "invalid json"})
		return
	}
	switch in.Type {
	case "state":
		s, err := mgr.Get(client.SessionID)
		if err != nil {
			sendDirect(client, "error", gin.H{"error": "session not found"})
			return
		}
		sendDirect(client, eventState, s.Snapshot())
	case "ping":
		sendDirect(client, "pong", nil)
	default:
		sendDirect(client, "error", gin.H{"error": "unknown message type"})
	}
}

func sendDirect(c *ws.Client, typ string, payload any) {
	b, err := ws.Encode(typ, payload)
	if err != nil {
		logrus.WithError(err).WithField("type", typ).Error("ws encode")
		return
	}
	defer func() {
		// Send may already be closed by the hub.
		_ = recover()
	}()
	select {
	case c.Send <- b:
	default:
		logrus.WithFields(logrus.Fields{"session_id": c.SessionID, "type": typ}).Warn("ws send drop")
	}
}
