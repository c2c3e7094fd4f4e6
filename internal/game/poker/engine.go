// Package poker implements five-card draw with up to two exchanges and a fixed payout table.
package poker

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
	DefaultStake = 100
	HandSize     = 5
	MaxExchanges = 2
)

// Engine runs one player's draw poker rounds. It is not safe for concurrent use.
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
	log := opts.Log(game.TypePoker)
	return &Engine{
		opts:  opts,
		log:   log,
		table: table.New(opts.Provider, opts.Stake, log),
		state: AwaitingBet{},
	}
}

func (e *Engine) Type() string { return game.TypePoker }

func (e *Engine) Open(ctx context.Context) error { return e.table.Open(ctx) }

func (e *Engine) Close() { e.table.Close() }

func (e *Engine) Phase() string { return string(e.state.Phase()) }

func (e *Engine) Chips() int { return e.table.Chips() }

func (e *Engine) State() RoundState { return e.state }

// PlaceBetAndDeal takes the bet and deals five cards.
func (e *Engine) PlaceBetAndDeal(ctx context.Context, bet int) error {
	if _, ok := e.state.(AwaitingBet); !ok {
		return models.ErrBetOutOfPhase
	}
	if err := e.table.CheckBet(bet); err != nil {
		return err
	}
	cards, err := e.table.Draw(ctx, HandSize)
	if err != nil {
		return err
	}
	e.table.Debit(bet)
	var hand [HandSize]common.Card
	copy(hand[:], cards)
	e.state = InitialHand{Bet: bet, Hand: hand}
	e.log.WithFields(logrus.Fields{"bet": bet, "hand": hand}).Debug("dealt")
	return nil
}

// ToggleSelection flips position i (0..4) in or out of the exchange set.
func (e *Engine) ToggleSelection(i int) error {
	if i < 0 || i >= HandSize {
		return fmt.Errorf("%w: position %d", models.ErrInvalidSelection, i)
	}
	switch st := e.state.(type) {
	case InitialHand:
		st.Selected[i] = !st.Selected[i]
		e.state = st
	case Exchanged:
		if st.Exchanges >= MaxExchanges {
			return fmt.Errorf("%w: no exchanges left", models.ErrIllegalTransition)
		}
		st.Selected[i] = !st.Selected[i]
		e.state = st
	default:
		return fmt.Errorf("%w: select in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	return nil
}

// Exchange replaces every selected position with a fresh card. The i-th drawn card goes to the
// i-th selected position in ascending order.
func (e *Engine) Exchange(ctx context.Context) error {
	var (
		bet   int
		hand  [HandSize]common.Card
		sel   Selection
		count int
	)
	switch st := e.state.(type) {
	case InitialHand:
		bet, hand, sel = st.Bet, st.Hand, st.Selected
	case Exchanged:
		bet, hand, sel, count = st.Bet, st.Hand, st.Selected, st.Exchanges
	default:
		return fmt.Errorf("%w: exchange in %s", models.ErrIllegalTransition, e.state.Phase())
	}
	if count >= MaxExchanges {
		return fmt.Errorf("%w: no exchanges left", models.ErrIllegalTransition)
	}
	if sel.Empty() {
		return fmt.Errorf("%w: nothing selected", models.ErrIllegalTransition)
	}

	idx := sel.Indices()
	cards, err := e.table.Draw(ctx, len(idx))
	if err != nil {
		return err
	}
	for n, pos := range idx {
		hand[pos] = cards[n]
	}
	e.state = Exchanged{Bet: bet, Hand: hand, Exchanges: count + 1}
	e.log.WithFields(logrus.Fields{"positions": idx, "exchanges": count + 1}).Debug("exchanged")
	return nil
}

// Finalize ranks the hand and pays bet times the rank multiplier.
func (e *Engine) Finalize(ctx context.Context) error {
	var (
		bet   int
		hand  [HandSize]common.Card
		count int
	)
	switch st := e.state.(type) {
	case InitialHand:
		bet, hand = st.Bet, st.Hand
	case Exchanged:
		bet, hand, count = st.Bet, st.Hand, st.Exchanges
	default:
		return fmt.Errorf("%w: finalize in %s", models.ErrIllegalTransition, e.state.Phase())
	}

	rank := Evaluate(hand)
	payout := bet * rank.Multiplier()
	desc, strength, err := Describe(hand)
	if err != nil {
		e.log.WithError(err).Warn("describe hand")
		desc = rank.String()
	}
	e.table.Credit(payout)
	e.state = Final{
		Bet:         bet,
		Hand:        hand,
		Exchanges:   count,
		Rank:        rank,
		Payout:      payout,
		Description: desc,
		Strength:    strength,
	}
	e.log.WithFields(logrus.Fields{
		"bet":    bet,
		"rank":   rank.String(),
		"payout": payout,
		"chips":  e.table.Chips(),
	}).Info("round resolved")
	e.opts.Emit(game.Result{
		Game:       game.TypePoker,
		Bet:        bet,
		Payout:     payout,
		Outcome:    rank.String(),
		Detail:     desc,
		ChipsAfter: e.table.Chips(),
	})
	return nil
}

// NewRound reshuffles and returns to AwaitingBet. A live hand is abandoned and its bet is lost.
func (e *Engine) NewRound(ctx context.Context) error {
	if err := e.table.Reshuffle(ctx); err != nil {
		return err
	}
	bet := 0
	switch st := e.state.(type) {
	case InitialHand:
		bet = st.Bet
	case Exchanged:
		bet = st.Bet
	}
	if bet > 0 {
		e.log.WithField("bet", bet).Info("round abandoned")
		e.opts.Emit(game.Result{Game: game.TypePoker, Bet: bet, Outcome: "forfeit", ChipsAfter: e.table.Chips()})
	}
	e.state = AwaitingBet{}
	return nil
}
