package poker

import (
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/table"
)

type View struct {
	table.Info
	Phase        Phase          `json:"phase"`
	Bet          int            `json:"bet"`
	Hand         []common.Card  `json:"hand"`
	Selected     []int          `json:"selected"`
	Exchanges    int            `json:"exchanges"`
	MaxExchanges int            `json:"max_exchanges"`
	CanExchange  bool           `json:"can_exchange"`
	Rank         *Rank          `json:"rank,omitempty"`
	Description  string         `json:"description,omitempty"`
	Payout       int            `json:"payout"`
	Payouts      map[string]int `json:"payout_table"`
}

func (e *Engine) View() any { return e.Snapshot() }

func (e *Engine) Snapshot() View {
	v := View{
		Info:         e.table.Info(),
		Phase:        e.state.Phase(),
		Hand:         []common.Card{},
		Selected:     []int{},
		MaxExchanges: MaxExchanges,
		Payouts:      PayoutTable(),
	}
	switch st := e.state.(type) {
	case InitialHand:
		v.Bet = st.Bet
		v.Hand = st.Hand[:]
		v.Selected = st.Selected.Indices()
		v.CanExchange = true
	case Exchanged:
		v.Bet = st.Bet
		v.Hand = st.Hand[:]
		v.Selected = st.Selected.Indices()
		v.Exchanges = st.Exchanges
		v.CanExchange = st.Exchanges < MaxExchanges
	case Final:
		v.Bet = st.Bet
		v.Hand = st.Hand[:]
		v.Exchanges = st.Exchanges
		rank := st.Rank
		v.Rank = &rank
		v.Description = st.Description
		v.Payout = st.Payout
	}
	return v
}

// PayoutTable maps rank names to multipliers.
func PayoutTable() map[string]int {
	out := make(map[string]int, len(rankNames))
	for r := HighCard; r <= RoyalFlush; r++ {
		out[r.String()] = r.Multiplier()
	}
	return out
}
