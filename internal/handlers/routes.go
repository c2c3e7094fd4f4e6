package handlers

import (
	"database/sql"
	"net/http"

	"card-casino-go/internal/config"
	"card-casino-go/internal/middleware"
	"card-casino-go/internal/session"
	ws "card-casino-go/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes wires session creation (public) and the per-session endpoints.
func RegisterSessionRoutes(api *gin.RouterGroup, mgr *session.Manager, db *sql.DB, cfg config.Config) *gin.RouterGroup {
	api.POST("/sessions", CreateSessionHandler(mgr, cfg))

	protected := api.Group("")
	protected.Use(middleware.RequireSession(cfg))
	protected.GET("/session", GetSessionHandler(mgr))
	protected.DELETE("/session", EndSessionHandler(mgr, cfg))
	protected.POST("/session/deck", RetryDeckHandler(mgr))
	protected.GET("/session/history", HistoryHandler(mgr, db))
	protected.GET("/session/history/:id", RoundHandler(mgr, db))
	return protected
}

// RegisterGameRoutes wires the engine actions for all three games.
func RegisterGameRoutes(rg *gin.RouterGroup, mgr *session.Manager) {
	RegisterBlackjackRoutes(rg, mgr)
	RegisterPokerRoutes(rg, mgr)
	RegisterHighLowRoutes(rg, mgr)
}

// NewRouter builds the full HTTP surface. Extra middleware (tracing, logging) runs first.
func NewRouter(mgr *session.Manager, db *sql.DB, cfg config.Config, hubProvider func() (*ws.Hub, bool), mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw...)
	r.Use(middleware.DevCORS(cfg))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": mgr.Len()})
	})

	api := r.Group("/api")
	api.GET("/leaderboard", LeaderboardHandler(db))
	protected := RegisterSessionRoutes(api, mgr, db, cfg)
	RegisterGameRoutes(protected, mgr)

	// WebSocket auth: cookie, Authorization header or token query param.
	r.GET("/ws", WebSocketHandler(hubProvider, mgr, cfg))
	return r
}
