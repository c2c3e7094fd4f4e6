// Package blackjack implements single-player blackjack against an auto-playing dealer.
package blackjack

import (
	"context"
	"fmt"

	"card-casino-go/internal/game"
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/table"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	DefaultStake = 10
	// DealerStandsOn is the total at which the dealer stops drawing.
	DealerStandsOn = 17
)

// Engine runs one player's blackjack rounds. It is not safe for concurrent use.
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
	log := opts.Log(game.TypeBlackjack)
	return &Engine{
		opts:  opts,
		log:   log,
		table: table.New(opts.Provider, opts.Stake, log),
		state: AwaitingBet{},
	}
}

func (e *Engine) Type() string { return game.TypeBlackjack }

func (e *Engine) Open(ctx context.Context) error { return e.table.Open(ctx) }

func (e *Engine) Close() { e.table.Close() }

func (e *Engine) Phase() string { return string(e.state.Phase()) }

func (e *Engine) Chips() int { return e.table.Chips() }

func (e *Engine) State() RoundState { return e.state }

// PlaceBetAndDeal takes the bet and deals two cards each. A natural 21 resolves the round at once.
func (e *Engine) PlaceBetAndDeal(ctx context.Context, bet int) error {
	if _, ok := e.state.(AwaitingBet); !ok {
		return models.ErrBetOutOfPhase
	}
	if err := e.table.CheckBet(bet); err != nil {
		return err
	}
	cards, err := e.table.Draw(ctx, 4)
	if err != nil {
		return err
	}
	e.table.Debit(bet)
	player := []common.Card{cards[0], cards[1]}
	dealer := []common.Card{cards[2], cards[3]}
	e.log.WithFields(logrus.Fields{"bet": bet, "player": player}).Debug("dealt")

	if common.BlackjackTotal(player) == 21 {
		e.resolve(bet, player, dealer, true)
		return nil
	}
	e.state = PlayerTurn{Bet: bet, Player: player, Dealer: dealer}
	return nil
}

// Hit draws one card for the player. Going over 21 ends the round without dealer play.
func (e *Engine) Hit(ctx context.Context) error {
	st, ok := e.state.(PlayerTurn)
	if !ok {
		return fmt.Errorf("%w: hit in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	cards, err := e.table.Draw(ctx, 1)
	if err != nil {
		return err
	}
	player := appendCard(st.Player, cards[0])
	if common.BlackjackTotal(player) > 21 {
		e.resolve(st.Bet, player, st.Dealer, false)
		return nil
	}
	e.state = PlayerTurn{Bet: st.Bet, Player: player, Dealer: st.Dealer}
	return nil
}

// Stand hands the round to the dealer. The dealer plays through DealerStep or PlayDealer.
func (e *Engine) Stand(ctx context.Context) error {
	st, ok := e.state.(PlayerTurn)
	if !ok {
		return fmt.Errorf("%w: stand in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	e.state = DealerTurn(st)
	return nil
}

// DealerStep performs one dealer transition: below DealerStandsOn the dealer draws a card,
// otherwise the round resolves. A draw that reaches DealerStandsOn or busts resolves in the
// same step. It reports whether the round is now resolved.
func (e *Engine) DealerStep(ctx context.Context) (bool, error) {
	st, ok := e.state.(DealerTurn)
	if !ok {
		return false, fmt.Errorf("%w: dealer step in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	if common.BlackjackTotal(st.Dealer) >= DealerStandsOn {
		e.resolve(st.Bet, st.Player, st.Dealer, false)
		return true, nil
	}
	cards, err := e.table.Draw(ctx, 1)
	if err != nil {
		return false, err
	}
	dealer := appendCard(st.Dealer, cards[0])
	if common.BlackjackTotal(dealer) >= DealerStandsOn {
		e.resolve(st.Bet, st.Player, dealer, false)
		return true, nil
	}
	e.state = DealerTurn{Bet: st.Bet, Player: st.Player, Dealer: dealer}
	return false, nil
}

// DealerWillDraw reports whether the next DealerStep draws a card.
func (e *Engine) DealerWillDraw() bool {
	st, ok := e.state.(DealerTurn)
	return ok && common.BlackjackTotal(st.Dealer) < DealerStandsOn
}

// PlayDealer runs DealerStep until the round resolves or a draw fails.
func (e *Engine) PlayDealer(ctx context.Context) error {
	for {
		done, err := e.DealerStep(ctx)
		if err != nil || done {
			return err
		}
	}
}

// NewRound reshuffles and returns to AwaitingBet. A live round is abandoned and its bet is lost.
func (e *Engine) NewRound(ctx context.Context) error {
	if err := e.table.Reshuffle(ctx); err != nil {
		return err
	}
	switch st := e.state.(type) {
	case PlayerTurn:
		e.forfeit(st.Bet)
	case DealerTurn:
		e.forfeit(st.Bet)
	}
	e.state = AwaitingBet{}
	return nil
}

func (e *Engine) resolve(bet int, player, dealer []common.Card, blackjack bool) {
	outcome, payout, credit := Settle(bet, player, dealer, blackjack)
	e.table.Credit(credit)
	e.state = Resolved{
		Bet:        bet,
		Player:     player,
		Dealer:     dealer,
		Blackjack:  blackjack,
		PlayerBust: common.BlackjackTotal(player) > 21,
		DealerBust: common.BlackjackTotal(dealer) > 21,
		Outcome:    outcome,
		Payout:     payout,
		Credit:     credit,
	}
	e.log.WithFields(logrus.Fields{
		"bet":     bet,
		"outcome": outcome,
		"payout":  payout,
		"chips":   e.table.Chips(),
	}).Info("round resolved")
	e.opts.Emit(game.Result{
		Game:       game.TypeBlackjack,
		Bet:        bet,
		Payout:     payout,
		Outcome:    string(outcome),
		Detail:     fmt.Sprintf("player %d, dealer %d", common.BlackjackTotal(player), common.BlackjackTotal(dealer)),
		ChipsAfter: e.table.Chips(),
	})
}

func (e *Engine) forfeit(bet int) {
	e.log.WithField("bet", bet).Info("round abandoned")
	e.opts.Emit(game.Result{
		Game:       game.TypeBlackjack,
		Bet:        bet,
		Outcome:    string(OutcomeForfeit),
		ChipsAfter: e.table.Chips(),
	})
}

// appendCard never shares the backing array with a previous state.
func appendCard(hand []common.Card, c common.Card) []common.Card {
	out := make([]common.Card, 0, len(hand)+1)
	return append(append(out, hand...), c)
}
