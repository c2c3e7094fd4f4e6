package blackjack

import "card-casino-go/internal/game/common"

type Phase string

const (
	PhaseAwaitingBet Phase = "awaiting_bet"
	PhasePlayerTurn  Phase = "player_turn"
	PhaseDealerTurn  Phase = "dealer_turn"
	PhaseResolved    Phase = "resolved"
)

type Outcome string

const (
	OutcomeBlackjack  Outcome = "blackjack"
	OutcomePlayerBust Outcome = "player_bust"
	OutcomeDealerBust Outcome = "dealer_bust"
	OutcomePlayerWins Outcome = "player_wins"
	OutcomeDealerWins Outcome = "dealer_wins"
	OutcomePush       Outcome = "push"
	// OutcomeForfeit is recorded when a live round is abandoned by NewRound.
	OutcomeForfeit Outcome = "forfeit"
)

var outcomeMessages = map[Outcome]string{
	OutcomeBlackjack:  "Blackjack!",
	OutcomePlayerBust: "Bust. Dealer wins.",
	OutcomeDealerBust: "Dealer busts. You win!",
	OutcomePlayerWins: "You win!",
	OutcomeDealerWins: "Dealer wins.",
	OutcomePush:       "Push. Bet returned.",
	OutcomeForfeit:    "Round abandoned.",
}

func (o Outcome) Message() string { return outcomeMessages[o] }

// RoundState is one of AwaitingBet, PlayerTurn, DealerTurn or Resolved.
type RoundState interface {
	Phase() Phase
	isRoundState()
}

type AwaitingBet struct{}

type PlayerTurn struct {
	Bet    int
	Player []common.Card
	Dealer []common.Card
}

type DealerTurn struct {
	Bet    int
	Player []common.Card
	Dealer []common.Card
}

// Resolved is a settled round. Outcome, Payout and Credit are fixed once the round resolves.
// Credit is what went back to the chip balance.
type Resolved struct {
	Bet        int
	Player     []common.Card
	Dealer     []common.Card
	Blackjack  bool
	PlayerBust bool
	DealerBust bool
	Outcome    Outcome
	Payout     int
	Credit     int
}

func (AwaitingBet) Phase() Phase { return PhaseAwaitingBet }
func (PlayerTurn) Phase() Phase  { return PhasePlayerTurn }
func (DealerTurn) Phase() Phase  { return PhaseDealerTurn }
func (Resolved) Phase() Phase    { return PhaseResolved }

func (AwaitingBet) isRoundState() {}
func (PlayerTurn) isRoundState()  {}
func (DealerTurn) isRoundState()  {}
func (Resolved) isRoundState()    {}

// Settle applies the payout precedence: natural blackjack, player bust, dealer bust, higher
// total, push. A natural pays bet*3/2 (rounded down) on top of the returned stake; every other
// outcome credits exactly its payout.
func Settle(bet int, player, dealer []common.Card, blackjack bool) (outcome Outcome, payout, credit int) {
	pt := common.BlackjackTotal(player)
	dt := common.BlackjackTotal(dealer)
	switch {
	case blackjack:
		payout = bet * 3 / 2
		return OutcomeBlackjack, payout, bet + payout
	case pt > 21:
		return OutcomePlayerBust, 0, 0
	case dt > 21:
		return OutcomeDealerBust, bet, bet
	case pt > dt:
		return OutcomePlayerWins, bet, bet
	case dt > pt:
		return OutcomeDealerWins, 0, 0
	default:
		return OutcomePush, bet, bet
	}
}
