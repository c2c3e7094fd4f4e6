package common

import (
	"fmt"
	"strconv"
	"strings"
)

type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

var suitNames = map[Suit]string{
	Spades:   "SPADES",
	Hearts:   "HEARTS",
	Diamonds: "DIAMONDS",
	Clubs:    "CLUBS",
}

func (s Suit) Name() string {
	return suitNames[s]
}

type Rank int

const (
	Ace   Rank = 1
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Name returns the rank the way the deck provider spells it ("ACE", "10", "KING").
func (r Rank) Name() string {
	switch r {
	case Ace:
		return "ACE"
	case Jack:
		return "JACK"
	case Queen:
		return "QUEEN"
	case King:
		return "KING"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is a drawn card. Cards are values and are never mutated after a draw.
type Card struct {
	Rank  Rank   `json:"rank"`
	Suit  Suit   `json:"suit"`
	Image string `json:"image,omitempty"`
}

func (c Card) String() string {
	var r string
	switch c.Rank {
	case Ace:
		r = "A"
	case Jack:
		r = "J"
	case Queen:
		r = "Q"
	case King:
		r = "K"
	default:
		r = fmt.Sprintf("%d", int(c.Rank))
	}
	return r + string(c.Suit)
}

// ParseCard accepts short codes such as "AS", "10H", "0D" or "TC".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit := Suit(s[len(s)-1:])
	rankStr := s[:len(s)-1]
	var r Rank
	switch rankStr {
	case "A":
		r = Ace
	case "J":
		r = Jack
	case "Q":
		r = Queen
	case "K":
		r = King
	case "T", "0":
		r = Ten
	default:
		var v int
		_, err := fmt.Sscanf(rankStr, "%d", &v)
		if err != nil || v < 2 || v > 10 {
			return Card{}, fmt.Errorf("invalid rank %q", rankStr)
		}
		r = Rank(v)
	}
	if _, ok := suitNames[suit]; !ok {
		return Card{}, fmt.Errorf("invalid suit %q", string(suit))
	}
	return Card{Rank: r, Suit: suit}, nil
}

// MustParseCards is ParseCard over a list; it panics on bad input and is meant for fixtures.
func MustParseCards(codes ...string) []Card {
	out := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// ParseRankName parses provider rank names: "ACE", "KING", "QUEEN", "JACK", "2".."10".
func ParseRankName(v string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "ACE":
		return Ace, nil
	case "KING":
		return King, nil
	case "QUEEN":
		return Queen, nil
	case "JACK":
		return Jack, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 2 || n > 10 {
		return 0, fmt.Errorf("invalid rank name %q", v)
	}
	return Rank(n), nil
}

// ParseSuitName parses provider suit names: "SPADES", "HEARTS", "DIAMONDS", "CLUBS".
func ParseSuitName(v string) (Suit, error) {
	name := strings.ToUpper(strings.TrimSpace(v))
	for s, n := range suitNames {
		if n == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid suit name %q", v)
}

// BlackjackValue is the hard value of a rank: ace 1, faces 10, numerals as printed.
func BlackjackValue(r Rank) int {
	switch {
	case r == Ace:
		return 1
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// BlackjackTotal sums hard values, then upgrades each ace from 1 to 11 while the sum stays <= 21.
// The result depends only on the multiset of ranks, never on card order.
func BlackjackTotal(cards []Card) int {
	sum := 0
	aces := 0
	for _, c := range cards {
		sum += BlackjackValue(c.Rank)
		if c.Rank == Ace {
			aces++
		}
	}
	for i := 0; i < aces; i++ {
		if sum+10 <= 21 {
			sum += 10
		}
	}
	return sum
}

// HighLowValue ranks cards for High-Low: numerals as printed, J=11, Q=12, K=13, ace always 14.
func HighLowValue(r Rank) int {
	if r == Ace {
		return 14
	}
	return int(r)
}

// PokerRankValue orders ranks for hand evaluation; ace is high (14).
func PokerRankValue(r Rank) int {
	if r == Ace {
		return 14
	}
	return int(r)
}
