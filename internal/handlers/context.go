package handlers

import (
	"card-casino-go/internal/middleware"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

func sessionFromContext(c *gin.Context, mgr *session.Manager) (*session.Session, error) {
	id := c.GetString(middleware.ContextSessionID)
	if id == "" {
		return nil, models.ErrSessionNotFound
	}
	return mgr.Get(id)
}
