package poker

import (
	"card-casino-go/internal/game/common"

	ph "github.com/paulhankin/poker"
)

func toPH(c common.Card) (ph.Card, error) {
	var s ph.Suit
	switch c.Suit {
	case common.Clubs:
		s = ph.Club
	case common.Diamonds:
		s = ph.Diamond
	case common.Hearts:
		s = ph.Heart
	default:
		s = ph.Spade
	}
	// Both sides number the ace 1.
	return ph.MakeCard(s, ph.Rank(c.Rank))
}

// Describe returns a human description of the hand, such as "pair of kings", and the
// evaluator's strength score, which orders hands within the same category.
func Describe(hand [5]common.Card) (string, int16, error) {
	var cards [5]ph.Card
	for i, c := range hand {
		pc, err := toPH(c)
		if err != nil {
			return "", 0, err
		}
		cards[i] = pc
	}
	desc, err := ph.Describe(cards[:])
	if err != nil {
		return "", 0, err
	}
	return desc, ph.Eval5(&cards), nil
}
