package handlers

import (
	"context"

	"card-casino-go/internal/game/highlow"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

type guessRequest struct {
	Direction string `json:"direction"`
}

func RegisterHighLowRoutes(rg *gin.RouterGroup, mgr *session.Manager) {
	g := rg.Group("/highlow")
	g.POST("/bet", engineAction(mgr, "bet", withBet((*highlow.Engine).PlaceBetAndDraw)))
	g.POST("/guess", engineAction[*highlow.Engine](mgr, "guess", bindGuess))
	g.POST("/double_up", engineAction(mgr, "double_up", noBody((*highlow.Engine).ContinueDoubleUp)))
	g.POST("/cash_out", engineAction(mgr, "cash_out", noBody((*highlow.Engine).CashOut)))
	g.POST("/restart", engineAction(mgr, "restart", noBody((*highlow.Engine).Restart)))
}

func bindGuess(c *gin.Context) (func(context.Context, *highlow.Engine) error, error) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, models.ErrInvalidJSON
	}
	dir, err := highlow.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, e *highlow.Engine) error { return e.Guess(ctx, dir) }, nil
}
