package handlers

import (
	"context"

	"card-casino-go/internal/game/poker"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

type selectRequest struct {
	Index *int `json:"index"`
}

func RegisterPokerRoutes(rg *gin.RouterGroup, mgr *session.Manager) {
	g := rg.Group("/poker")
	g.POST("/bet", engineAction(mgr, "bet", withBet((*poker.Engine).PlaceBetAndDeal)))
	g.POST("/select", engineAction[*poker.Engine](mgr, "select", bindSelection))
	g.POST("/exchange", engineAction(mgr, "exchange", noBody((*poker.Engine).Exchange)))
	g.POST("/finalize", engineAction(mgr, "finalize", noBody((*poker.Engine).Finalize)))
	g.POST("/new_round", engineAction(mgr, "new_round", noBody((*poker.Engine).NewRound)))
}

// bindSelection reads {"index": i} with i in 0..4.
func bindSelection(c *gin.Context) (func(context.Context, *poker.Engine) error, error) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		return nil, models.ErrInvalidJSON
	}
	i := *req.Index
	return func(_ context.Context, e *poker.Engine) error { return e.ToggleSelection(i) }, nil
}
