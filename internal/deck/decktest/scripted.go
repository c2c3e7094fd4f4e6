// Package decktest provides a deck.Provider that deals a fixed card sequence.
package decktest

import (
	"context"
	"errors"
	"sync"

	"card-casino-go/internal/deck"
	"card-casino-go/internal/game/common"
)

var ErrScripted = errors.New("decktest: scripted failure")

// Scripted serves cards in the order they were pushed. Reshuffle does not rewind the script.
type Scripted struct {
	mu        sync.Mutex
	cards     []common.Card
	failNext  int
	created   int
	draws     int
	reshuffle int
}

func New(codes ...string) *Scripted {
	s := &Scripted{}
	s.Push(codes...)
	return s
}

// Push appends cards (short codes, e.g. "AS", "10H") to the script.
func (s *Scripted) Push(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, common.MustParseCards(codes...)...)
}

// FailNext makes the next n provider calls fail with ErrScripted.
func (s *Scripted) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

func (s *Scripted) Calls() (created, draws, reshuffles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, s.draws, s.reshuffle
}

func (s *Scripted) CreateDeck(ctx context.Context) (deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return deck.Deck{}, err
	}
	s.created++
	return deck.Deck{ID: "scripted", Remaining: len(s.cards)}, nil
}

// Draw returns fewer cards than requested once the script runs out.
func (s *Scripted) Draw(ctx context.Context, deckID string, count int) (deck.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return deck.Draw{}, err
	}
	s.draws++
	if count > len(s.cards) {
		count = len(s.cards)
	}
	out := append([]common.Card(nil), s.cards[:count]...)
	s.cards = s.cards[count:]
	return deck.Draw{Cards: out, Remaining: len(s.cards)}, nil
}

func (s *Scripted) Reshuffle(ctx context.Context, deckID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return 0, err
	}
	s.reshuffle++
	return len(s.cards), nil
}

func (s *Scripted) fail() error {
	if s.failNext > 0 {
		s.failNext--
		return ErrScripted
	}
	return nil
}
