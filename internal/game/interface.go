package game

import (
	"context"
	"time"

	"card-casino-go/internal/deck"

	"github.com/sirupsen/logrus"
)

const (
	TypeBlackjack = "blackjack"
	TypePoker     = "poker"
	TypeHighLow   = "highlow"
)

// Game is the pluggable interface every engine implements. Operations specific to one game live
// on the concrete engine types; this is what the session layer needs to host any of them.
type Game interface {
	Type() string
	// Open creates the engine's deck. It may be called again after a failure.
	Open(ctx context.Context) error
	// Close releases the deck when the session ends.
	Close()
	Phase() string
	Chips() int
	// View is a JSON-ready snapshot of the committed state.
	View() any
}

// Options configures a new engine. A zero Stake selects the engine's default starting balance.
type Options struct {
	Provider deck.Provider
	Stake    int
	Logger   logrus.FieldLogger
	OnResult func(Result)
}

// Result describes a settled round.
type Result struct {
	Game       string    `json:"game"`
	Bet        int       `json:"bet"`
	Payout     int       `json:"payout"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	ChipsAfter int       `json:"chips_after"`
	SettledAt  time.Time `json:"settled_at"`
}

// Emit stamps r and hands it to OnResult, if set.
func (o Options) Emit(r Result) {
	if o.OnResult == nil {
		return
	}
	if r.SettledAt.IsZero() {
		r.SettledAt = time.Now().UTC()
	}
	o.OnResult(r)
}

// Log returns the configured logger, tagged with the game type.
func (o Options) Log(gameType string) logrus.FieldLogger {
	l := o.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithField("game", gameType)
}
