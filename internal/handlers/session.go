package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"card-casino-go/internal/auth"
	"card-casino-go/internal/config"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	Game string `json:"game"`
}

type createSessionResponse struct {
	SessionID string           `json:"session_id"`
	Token     string           `json:"token"`
	State     session.Snapshot `json:"state"`
}

type historyResponse struct {
	Rounds []models.RoundRecord `json:"rounds"`
	Stats  models.SessionStats  `json:"stats"`
}

// CreateSessionHandler starts a session and returns its token. A deck failure is reported in
// the state, not as an HTTP error, so the client can offer a retry.
func CreateSessionHandler(mgr *session.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		s, err := mgr.Create(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Game)))
		if err != nil {
			writeAPIError(c, err)
			return
		}
		token, err := auth.GenerateToken(s.ID, s.Game, cfg)
		if err != nil {
			_ = mgr.End(s.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		setSessionCookie(c, token, cfg)
		c.JSON(http.StatusCreated, createSessionResponse{SessionID: s.ID, Token: token, State: s.Snapshot()})
	}
}

func GetSessionHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

func RetryDeckHandler(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		snap, err := mgr.RetryDeck(c.Request.Context(), s.ID)
		writeResult(c, snap, err)
	}
}

func EndSessionHandler(mgr *session.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if err := mgr.End(s.ID); err != nil {
			writeAPIError(c, err)
			return
		}
		setSessionCookie(c, "", cfg)
		c.Status(http.StatusNoContent)
	}
}

// HistoryHandler lists settled rounds, newest first. Without a database the list is empty.
func HistoryHandler(mgr *session.Manager, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		resp := historyResponse{Rounds: []models.RoundRecord{}}
		if db == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		ctx := c.Request.Context()
		rounds, err := models.ListRoundsBySession(ctx, db, s.ID, limit)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		stats, err := models.GetSessionStats(ctx, db, s.ID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if rounds != nil {
			resp.Rounds = rounds
		}
		resp.Stats = stats
		c.JSON(http.StatusOK, resp)
	}
}

// setSessionCookie stores the token in an HttpOnly cookie; an empty token clears it.
func setSessionCookie(c *gin.Context, token string, cfg config.Config) {
	maxAge := int(cfg.JWTTTL.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AuthCookieName, token, maxAge, "/", "", !cfg.IsDevelopment(), true)
}

// RoundHandler returns one settled round of the caller's session.
func RoundHandler(mgr *session.Manager, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || db == nil {
			writeAPIError(c, models.ErrNotFound)
			return
		}
		r, err := models.GetRoundByID(c.Request.Context(), db, id)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if r.SessionID != s.ID {
			writeAPIError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
