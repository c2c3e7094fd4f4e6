package poker

import (
	"fmt"
	"sort"

	"card-casino-go/internal/game/common"
)

// Rank is the category of a five-card hand, weakest first.
type Rank int

const (
	HighCard Rank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var rankNames = [...]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

var multipliers = [...]int{
	HighCard:      0,
	OnePair:       1,
	TwoPair:       2,
	ThreeOfAKind:  3,
	Straight:      4,
	Flush:         6,
	FullHouse:     9,
	FourOfAKind:   25,
	StraightFlush: 50,
	RoyalFlush:    250,
}

func (r Rank) String() string {
	if r < HighCard || r > RoyalFlush {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Multiplier is the payout factor applied to the bet.
func (r Rank) Multiplier() int {
	if r < HighCard || r > RoyalFlush {
		return 0
	}
	return multipliers[r]
}

func (r Rank) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Evaluate ranks a hand, checking categories from strongest to weakest. The result does not
// depend on card order.
func Evaluate(hand [5]common.Card) Rank {
	values := make([]int, 0, 5)
	counts := map[int]int{}
	flush := true
	for _, c := range hand {
		v := common.PokerRankValue(c.Rank)
		values = append(values, v)
		counts[v]++
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}
	sort.Ints(values)
	straight := isStraight(values)

	var pairs, trips, quads int
	for _, n := range counts {
		switch n {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case flush && straight && values[0] == 10:
		return RoyalFlush
	case flush && straight:
		return StraightFlush
	case quads == 1:
		return FourOfAKind
	case trips == 1 && pairs == 1:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case trips == 1:
		return ThreeOfAKind
	case pairs == 2:
		return TwoPair
	case pairs == 1:
		return OnePair
	default:
		return HighCard
	}
}

// isStraight expects sorted values. A-2-3-4-5 is the only run where the ace counts low.
func isStraight(sorted []int) bool {
	if sorted[0] == 2 && sorted[1] == 3 && sorted[2] == 4 && sorted[3] == 5 && sorted[4] == 14 {
		return true
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}
