// Package table holds the state every engine shares: the chip balance and the deck handle.
package table

import (
	"context"
	"fmt"

	"card-casino-go/internal/deck"
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
)

// Info is the table part of every engine view.
type Info struct {
	Chips     int    `json:"chips"`
	Stake     int    `json:"stake"`
	DeckID    string `json:"deck_id,omitempty"`
	Remaining int    `json:"remaining"`
	DeckReady bool   `json:"deck_ready"`
}

// Table owns one engine's chips and deck. Chips never go below zero: Debit refuses to overdraw.
// A Table is not safe for concurrent use; the owning engine serializes access.
type Table struct {
	provider  deck.Provider
	log       logrus.FieldLogger
	stake     int
	chips     int
	deckID    string
	remaining int
}

func New(provider deck.Provider, stake int, log logrus.FieldLogger) *Table {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if stake < 0 {
		stake = 0
	}
	return &Table{provider: provider, log: log, stake: stake, chips: stake}
}

// Open asks the provider for a fresh shuffled deck. The previous deck handle is dropped either
// way, so after a failure betting stays blocked until a retry succeeds.
func (t *Table) Open(ctx context.Context) error {
	if t.provider == nil {
		return fmt.Errorf("%w: no deck provider", models.ErrDeckUnavailable)
	}
	d, err := t.provider.CreateDeck(ctx)
	t.Close()
	if err != nil {
		t.log.WithError(err).Warn("deck creation failed")
		return fmt.Errorf("%w: %v", models.ErrDeckUnavailable, err)
	}
	t.deckID, t.remaining = d.ID, d.Remaining
	t.log.WithFields(logrus.Fields{"deck_id": d.ID, "remaining": d.Remaining}).Debug("deck ready")
	return nil
}

// Close drops the deck handle and lets the provider free the deck if it holds one.
func (t *Table) Close() {
	if t.deckID == "" {
		return
	}
	if r, ok := t.provider.(deck.Releaser); ok {
		r.Release(t.deckID)
	}
	t.deckID, t.remaining = "", 0
}

func (t *Table) Ready() bool { return t.deckID != "" }

func (t *Table) Chips() int { return t.chips }

func (t *Table) Stake() int { return t.stake }

func (t *Table) Info() Info {
	return Info{Chips: t.chips, Stake: t.stake, DeckID: t.deckID, Remaining: t.remaining, DeckReady: t.Ready()}
}

// CheckBet rejects bets outside [1, chips] and bets placed before a deck exists.
func (t *Table) CheckBet(bet int) error {
	if bet < 1 || bet > t.chips {
		return fmt.Errorf("%w: bet %d with %d chips", models.ErrInvalidBet, bet, t.chips)
	}
	if !t.Ready() {
		return models.ErrDeckUnavailable
	}
	return nil
}

// ClampBet maps any requested amount into [1, chips]. It returns 0 when there are no chips.
func ClampBet(bet, chips int) int {
	if chips < 1 {
		return 0
	}
	if bet < 1 {
		return 1
	}
	if bet > chips {
		return chips
	}
	return bet
}

// Draw takes exactly n cards. A provider error or a short draw is ErrDrawFailed and leaves the
// table untouched.
func (t *Table) Draw(ctx context.Context, n int) ([]common.Card, error) {
	if !t.Ready() {
		return nil, models.ErrDeckUnavailable
	}
	d, err := t.provider.Draw(ctx, t.deckID, n)
	if err != nil {
		t.log.WithError(err).WithField("count", n).Warn("draw failed")
		return nil, fmt.Errorf("%w: %v", models.ErrDrawFailed, err)
	}
	if len(d.Cards) != n {
		t.log.WithFields(logrus.Fields{"count": n, "got": len(d.Cards)}).Warn("short draw")
		return nil, fmt.Errorf("%w: wanted %d cards, got %d", models.ErrDrawFailed, n, len(d.Cards))
	}
	t.remaining = d.Remaining
	return d.Cards, nil
}

// Reshuffle returns all cards to the deck.
func (t *Table) Reshuffle(ctx context.Context) error {
	if !t.Ready() {
		return models.ErrDeckUnavailable
	}
	remaining, err := t.provider.Reshuffle(ctx, t.deckID)
	if err != nil {
		t.log.WithError(err).Warn("reshuffle failed")
		return fmt.Errorf("%w: reshuffle: %v", models.ErrDrawFailed, err)
	}
	t.remaining = remaining
	return nil
}

func (t *Table) Debit(n int) {
	if n < 0 || n > t.chips {
		panic(fmt.Sprintf("table: debit %d from %d chips", n, t.chips))
	}
	t.chips -= n
}

func (t *Table) Credit(n int) {
	if n < 0 {
		panic(fmt.Sprintf("table: negative credit %d", n))
	}
	t.chips += n
}

// ResetChips restores the initial stake.
func (t *Table) ResetChips() { t.chips = t.stake }
