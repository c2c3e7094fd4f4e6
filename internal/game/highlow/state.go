package highlow

import (
	"fmt"
	"strings"

	"card-casino-go/internal/game/common"
	"card-casino-go/internal/models"
)

type Phase string

const (
	PhaseAwaitingBet Phase = "awaiting_bet"
	PhaseCardDrawn   Phase = "card_drawn"
	PhaseWinChoice   Phase = "win_choice"
	PhaseDraw        Phase = "draw"
	PhaseGameOver    Phase = "game_over"
)

type Direction string

const (
	Higher Direction = "higher"
	Lower  Direction = "lower"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Higher, Lower:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrInvalidDirection, s)
	}
}

type Outcome string

const (
	OutcomeWin      Outcome = "win"
	OutcomeDraw     Outcome = "draw"
	OutcomeLose     Outcome = "lose"
	OutcomeGameOver Outcome = "game_over"
)

var outcomeMessages = map[Outcome]string{
	OutcomeWin:      "Correct!",
	OutcomeDraw:     "Draw. Your bet is safe.",
	OutcomeLose:     "Wrong guess.",
	OutcomeGameOver: "Game over. You are out of chips.",
}

func (o Outcome) Message() string { return outcomeMessages[o] }

// Judge compares the next card against the current one. Aces are always high.
func Judge(guess Direction, current, next common.Card) Outcome {
	cv, nv := common.HighLowValue(current.Rank), common.HighLowValue(next.Rank)
	switch {
	case nv == cv:
		return OutcomeDraw
	case guess == Higher && nv > cv, guess == Lower && nv < cv:
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

// RoundState is one of AwaitingBet, CardDrawn, WinChoice, Draw or GameOver.
type RoundState interface {
	Phase() Phase
	isRoundState()
}

// LastRound summarizes a lost round for display while the next bet is awaited.
type LastRound struct {
	Bet      int
	Guess    Direction
	Previous common.Card
	Drawn    common.Card
	Outcome  Outcome
}

type AwaitingBet struct {
	Last *LastRound
}

type CardDrawn struct {
	Bet     int
	Current common.Card
}

// WinChoice holds an uncredited payout of twice the bet.
type WinChoice struct {
	Bet      int
	Guess    Direction
	Previous common.Card
	Current  common.Card
	Payout   int
}

// Draw holds the returned bet as an uncredited payout.
type Draw struct {
	Bet      int
	Guess    Direction
	Previous common.Card
	Current  common.Card
	Payout   int
}

type GameOver struct {
	Bet      int
	Guess    Direction
	Previous common.Card
	Current  common.Card
}

func (AwaitingBet) Phase() Phase { return PhaseAwaitingBet }
func (CardDrawn) Phase() Phase   { return PhaseCardDrawn }
func (WinChoice) Phase() Phase   { return PhaseWinChoice }
func (Draw) Phase() Phase        { return PhaseDraw }
func (GameOver) Phase() Phase    { return PhaseGameOver }

func (AwaitingBet) isRoundState() {}
func (CardDrawn) isRoundState()   {}
func (WinChoice) isRoundState()   {}
func (Draw) isRoundState()        {}
func (GameOver) isRoundState()    {}
