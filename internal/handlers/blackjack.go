package handlers

import (
	"context"
	"fmt"

	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

func RegisterBlackjackRoutes(rg *gin.RouterGroup, mgr *session.Manager) {
	g := rg.Group("/blackjack")
	g.POST("/bet", engineAction(mgr, "bet", withBet((*blackjack.Engine).PlaceBetAndDeal)))
	g.POST("/hit", engineAction(mgr, "hit", noBody((*blackjack.Engine).Hit)))
	g.POST("/stand", engineAction(mgr, "stand", noBody((*blackjack.Engine).Stand)))
	g.POST("/dealer", engineAction(mgr, "dealer", noBody(resumeDealer)))
	g.POST("/new_round", engineAction(mgr, "new_round", noBody((*blackjack.Engine).NewRound)))
}

// resumeDealer only checks the phase; the session plays the dealer's turn after any operation
// that leaves the round there.
func resumeDealer(e *blackjack.Engine, _ context.Context) error {
	if phase := e.State().Phase(); phase != blackjack.PhaseDealerTurn {
		return fmt.Errorf("%w: dealer in %s", models.ErrIllegalTransition, phase)
	}
	return nil
}
