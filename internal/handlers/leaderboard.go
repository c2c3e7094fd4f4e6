package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"card-casino-go/internal/models"
	"card-casino-go/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LeaderboardHandler serves per-game totals across all sessions for a time window.
// Accepts optional query parameter 'days' (default 30, clamped to [1, 365]).
func LeaderboardHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "handlers.LeaderboardHandler")
		if db == nil {
			tracing.EndSpan(span, nil)
			c.JSON(http.StatusOK, models.LeaderboardResponse{Days: 30, Items: []models.LeaderboardGame{}})
			return
		}
		days, _ := strconv.ParseInt(c.Query("days"), 10, 64)

		resp, err := models.BuildLeaderboard(ctx, db, days, time.Now())
		tracing.EndSpan(span, err)
		if err != nil {
			logrus.WithError(err).WithField("days", days).Error("leaderboard")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
