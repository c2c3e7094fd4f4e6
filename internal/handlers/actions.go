package handlers

import (
	"context"

	"card-casino-go/internal/game"
	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
)

// binder turns a request into the engine call to run under the session guard.
type binder[E game.Game] func(c *gin.Context) (func(context.Context, E) error, error)

// engineAction resolves the caller's session, binds the request and applies it. Binding errors
// never reach the engine.
func engineAction[E game.Game](mgr *session.Manager, op string, bind binder[E]) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessionFromContext(c, mgr)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		fn, err := bind(c)
		if err != nil {
			writeResult(c, s.Snapshot(), err)
			return
		}
		snap, err := session.Apply(c.Request.Context(), s, op, fn)
		writeResult(c, snap, err)
	}
}

// noBody binds requests that carry no parameters. fn is usually a method expression.
func noBody[E game.Game](fn func(E, context.Context) error) binder[E] {
	return func(*gin.Context) (func(context.Context, E) error, error) {
		return func(ctx context.Context, e E) error { return fn(e, ctx) }, nil
	}
}

type betRequest struct {
	Bet int `json:"bet"`
}

// withBet binds {"bet": n}. Range checks belong to the engine.
func withBet[E game.Game](fn func(E, context.Context, int) error) binder[E] {
	return func(c *gin.Context) (func(context.Context, E) error, error) {
		var req betRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, models.ErrInvalidJSON
		}
		return func(ctx context.Context, e E) error { return fn(e, ctx, req.Bet) }, nil
	}
}
