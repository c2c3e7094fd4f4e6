package poker

import "card-casino-go/internal/game/common"

type Phase string

const (
	PhaseAwaitingBet Phase = "awaiting_bet"
	PhaseInitialHand Phase = "initial_hand"
	PhaseExchange    Phase = "exchange"
	PhaseFinal       Phase = "final"
)

// RoundState is one of AwaitingBet, InitialHand, Exchanged or Final.
type RoundState interface {
	Phase() Phase
	isRoundState()
}

// Selection is the set of hand positions marked for exchange.
type Selection [HandSize]bool

func (s Selection) Empty() bool { return s.Count() == 0 }

func (s Selection) Count() int {
	n := 0
	for _, on := range s {
		if on {
			n++
		}
	}
	return n
}

// Indices lists the selected positions in ascending order.
func (s Selection) Indices() []int {
	out := []int{}
	for i, on := range s {
		if on {
			out = append(out, i)
		}
	}
	return out
}

type AwaitingBet struct{}

type InitialHand struct {
	Bet      int
	Hand     [HandSize]common.Card
	Selected Selection
}

// Exchanged follows one or more exchanges. Exchanges is at most MaxExchanges.
type Exchanged struct {
	Bet       int
	Hand      [HandSize]common.Card
	Selected  Selection
	Exchanges int
}

type Final struct {
	Bet         int
	Hand        [HandSize]common.Card
	Exchanges   int
	Rank        Rank
	Payout      int
	Description string
	Strength    int16
}

func (AwaitingBet) Phase() Phase { return PhaseAwaitingBet }
func (InitialHand) Phase() Phase { return PhaseInitialHand }
func (Exchanged) Phase() Phase   { return PhaseExchange }
func (Final) Phase() Phase       { return PhaseFinal }

func (AwaitingBet) isRoundState() {}
func (InitialHand) isRoundState() {}
func (Exchanged) isRoundState()   {}
func (Final) isRoundState()       {}
