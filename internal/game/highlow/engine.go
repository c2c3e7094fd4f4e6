// Package highlow implements the high-low guessing game with double-up chaining.
package highlow

import (
	"context"
	"fmt"

	"card-casino-go/internal/game"
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/table"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
)

const DefaultStake = 100

// Engine runs one player's high-low rounds. It is not safe for concurrent use.
type Engine struct {
	opts  game.Options
	log   logrus.FieldLogger
	table *table.Table
	state RoundState
}

var _ game.Game = (*Engine)(nil)

func New(opts game.Options) *Engine {
	if opts.Stake <= 0 {
		opts.Stake = DefaultStake
	}
	log := opts.Log(game.TypeHighLow)
	return &Engine{
		opts:  opts,
		log:   log,
		table: table.New(opts.Provider, opts.Stake, log),
		state: AwaitingBet{},
	}
}

func (e *Engine) Type() string { return game.TypeHighLow }

func (e *Engine) Open(ctx context.Context) error { return e.table.Open(ctx) }

func (e *Engine) Close() { e.table.Close() }

func (e *Engine) Phase() string { return string(e.state.Phase()) }

func (e *Engine) Chips() int { return e.table.Chips() }

func (e *Engine) State() RoundState { return e.state }

// PlaceBetAndDraw takes the bet and reveals the first card.
func (e *Engine) PlaceBetAndDraw(ctx context.Context, bet int) error {
	if _, ok := e.state.(AwaitingBet); !ok {
		return models.ErrBetOutOfPhase
	}
	if err := e.table.CheckBet(bet); err != nil {
		return err
	}
	cards, err := e.table.Draw(ctx, 1)
	if err != nil {
		return err
	}
	e.table.Debit(bet)
	e.state = CardDrawn{Bet: bet, Current: cards[0]}
	e.log.WithFields(logrus.Fields{"bet": bet, "card": cards[0].String()}).Debug("card drawn")
	return nil
}

// Guess draws the next card and compares it with the current one. A win or a draw waits for
// ContinueDoubleUp or CashOut; a loss settles at once.
func (e *Engine) Guess(ctx context.Context, dir Direction) error {
	st, ok := e.state.(CardDrawn)
	if !ok {
		return fmt.Errorf("%w: guess in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	if dir != Higher && dir != Lower {
		return fmt.Errorf("%w: %q", models.ErrInvalidDirection, dir)
	}
	cards, err := e.table.Draw(ctx, 1)
	if err != nil {
		return err
	}
	next := cards[0]
	outcome := Judge(dir, st.Current, next)
	log := e.log.WithFields(logrus.Fields{
		"bet":      st.Bet,
		"guess":    dir,
		"previous": st.Current.String(),
		"drawn":    next.String(),
		"outcome":  outcome,
	})

	switch outcome {
	case OutcomeWin:
		e.state = WinChoice{Bet: st.Bet, Guess: dir, Previous: st.Current, Current: next, Payout: 2 * st.Bet}
	case OutcomeDraw:
		e.state = Draw{Bet: st.Bet, Guess: dir, Previous: st.Current, Current: next, Payout: st.Bet}
	default:
		if e.table.Chips() == 0 {
			outcome = OutcomeGameOver
			e.state = GameOver{Bet: st.Bet, Guess: dir, Previous: st.Current, Current: next}
		} else {
			e.state = AwaitingBet{Last: &LastRound{Bet: st.Bet, Guess: dir, Previous: st.Current, Drawn: next, Outcome: outcome}}
		}
		e.settle(st.Bet, 0, outcome, "")
	}
	log.Info("guess resolved")
	return nil
}

// ContinueDoubleUp credits the pending payout and immediately bets all of it on a fresh card.
func (e *Engine) ContinueDoubleUp(ctx context.Context) error {
	bet, payout, outcome, ok := e.pending()
	if !ok {
		return fmt.Errorf("%w: double up in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	cards, err := e.table.Draw(ctx, 1)
	if err != nil {
		return err
	}
	e.table.Credit(payout)
	e.settle(bet, payout, outcome, "double up")
	e.table.Debit(payout)
	e.state = CardDrawn{Bet: payout, Current: cards[0]}
	e.log.WithFields(logrus.Fields{"bet": payout, "card": cards[0].String()}).Info("double up")
	return nil
}

// CashOut credits the pending payout and returns to AwaitingBet.
func (e *Engine) CashOut(ctx context.Context) error {
	bet, payout, outcome, ok := e.pending()
	if !ok {
		return fmt.Errorf("%w: cash out in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	e.table.Credit(payout)
	e.settle(bet, payout, outcome, "cash out")
	e.state = AwaitingBet{}
	e.log.WithFields(logrus.Fields{"payout": payout, "chips": e.table.Chips()}).Info("cashed out")
	return nil
}

// Restart creates a new deck, then resets chips to the stake and clears the round. It is valid
// in any phase; a failed deck request changes nothing but leaves betting blocked until a retry.
func (e *Engine) Restart(ctx context.Context) error {
	if err := e.table.Open(ctx); err != nil {
		return err
	}
	e.table.ResetChips()
	e.state = AwaitingBet{}
	e.log.WithField("chips", e.table.Chips()).Info("restarted")
	return nil
}

func (e *Engine) pending() (bet, payout int, outcome Outcome, ok bool) {
	switch st := e.state.(type) {
	case WinChoice:
		return st.Bet, st.Payout, OutcomeWin, true
	case Draw:
		return st.Bet, st.Payout, OutcomeDraw, true
	}
	return 0, 0, "", false
}

func (e *Engine) settle(bet, payout int, outcome Outcome, detail string) {
	e.opts.Emit(game.Result{
		Game:       game.TypeHighLow,
		Bet:        bet,
		Payout:     payout,
		Outcome:    string(outcome),
		Detail:     detail,
		ChipsAfter: e.table.Chips(),
	})
}

// cards returns the visible card slots for the current state.
func (e *Engine) cards() (current, previous *common.Card) {
	switch st := e.state.(type) {
	case CardDrawn:
		return &st.Current, nil
	case WinChoice:
		return &st.Current, &st.Previous
	case Draw:
		return &st.Current, &st.Previous
	case GameOver:
		return &st.Current, &st.Previous
	}
	return nil, nil
}
