package highlow

import (
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/table"
)

type View struct {
	table.Info
	Phase    Phase        `json:"phase"`
	Bet      int          `json:"bet"`
	Current  *common.Card `json:"current"`
	Previous *common.Card `json:"previous"`
	Guess    Direction    `json:"guess,omitempty"`
	Payout   int          `json:"payout"`
	Outcome  Outcome      `json:"outcome,omitempty"`
	Message  string       `json:"message,omitempty"`
	Last     *LastView    `json:"last,omitempty"`
}

type LastView struct {
	Bet      int         `json:"bet"`
	Guess    Direction   `json:"guess"`
	Previous common.Card `json:"previous"`
	Drawn    common.Card `json:"drawn"`
	Outcome  Outcome     `json:"outcome"`
	Message  string      `json:"message"`
}

func (e *Engine) View() any { return e.Snapshot() }

func (e *Engine) Snapshot() View {
	v := View{Info: e.table.Info(), Phase: e.state.Phase()}
	v.Current, v.Previous = e.cards()
	switch st := e.state.(type) {
	case AwaitingBet:
		if st.Last != nil {
			v.Last = &LastView{
				Bet:      st.Last.Bet,
				Guess:    st.Last.Guess,
				Previous: st.Last.Previous,
				Drawn:    st.Last.Drawn,
				Outcome:  st.Last.Outcome,
				Message:  st.Last.Outcome.Message(),
			}
		}
	case CardDrawn:
		v.Bet = st.Bet
	case WinChoice:
		v.Bet, v.Guess, v.Payout = st.Bet, st.Guess, st.Payout
		v.Outcome = OutcomeWin
	case Draw:
		v.Bet, v.Guess, v.Payout = st.Bet, st.Guess, st.Payout
		v.Outcome = OutcomeDraw
	case GameOver:
		v.Bet, v.Guess = st.Bet, st.Guess
		v.Outcome = OutcomeGameOver
	}
	v.Message = v.Outcome.Message()
	return v
}
