package blackjack

import (
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/table"
)

// View is the presentation snapshot. While the player acts, the dealer's first card is nil and
// the dealer total is omitted.
type View struct {
	table.Info
	Phase       Phase          `json:"phase"`
	Bet         int            `json:"bet"`
	Player      []common.Card  `json:"player"`
	PlayerTotal int            `json:"player_total"`
	Dealer      []*common.Card `json:"dealer"`
	DealerTotal *int           `json:"dealer_total"`
	Blackjack   bool           `json:"blackjack"`
	PlayerBust  bool           `json:"player_bust"`
	DealerBust  bool           `json:"dealer_bust"`
	Outcome     Outcome        `json:"outcome,omitempty"`
	Message     string         `json:"message,omitempty"`
	Payout      int            `json:"payout"`
}

func (e *Engine) View() any { return e.Snapshot() }

func (e *Engine) Snapshot() View {
	v := View{Info: e.table.Info(), Phase: e.state.Phase(), Player: []common.Card{}, Dealer: []*common.Card{}}
	switch st := e.state.(type) {
	case PlayerTurn:
		v.Bet = st.Bet
		v.fillPlayer(st.Player)
		v.Dealer = dealerCards(st.Dealer, true)
	case DealerTurn:
		v.Bet = st.Bet
		v.fillPlayer(st.Player)
		v.fillDealer(st.Dealer)
	case Resolved:
		v.Bet = st.Bet
		v.fillPlayer(st.Player)
		v.fillDealer(st.Dealer)
		v.Blackjack = st.Blackjack
		v.PlayerBust = st.PlayerBust
		v.DealerBust = st.DealerBust
		v.Outcome = st.Outcome
		v.Message = st.Outcome.Message()
		v.Payout = st.Payout
	}
	return v
}

func (v *View) fillPlayer(hand []common.Card) {
	v.Player = append([]common.Card(nil), hand...)
	v.PlayerTotal = common.BlackjackTotal(hand)
}

func (v *View) fillDealer(hand []common.Card) {
	v.Dealer = dealerCards(hand, false)
	total := common.BlackjackTotal(hand)
	v.DealerTotal = &total
}

func dealerCards(hand []common.Card, hideFirst bool) []*common.Card {
	out := make([]*common.Card, len(hand))
	for i := range hand {
		if i == 0 && hideFirst {
			continue
		}
		c := hand[i]
		out[i] = &c
	}
	return out
}
