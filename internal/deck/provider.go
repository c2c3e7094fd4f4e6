// Package deck is the boundary to the service that owns shuffling and dealing.
// Engines never generate randomness; they consume cards from a Provider in draw order.
package deck

import (
	"context"

	"card-casino-go/internal/game/common"
)

// Provider is the minimal contract the game engines depend on.
type Provider interface {
	CreateDeck(ctx context.Context) (Deck, error)
	Draw(ctx context.Context, deckID string, count int) (Draw, error)
	Reshuffle(ctx context.Context, deckID string) (remaining int, err error)
}

// Releaser is implemented by providers that hold deck state in memory. Callers release a deck
// once no engine will draw from it again.
type Releaser interface {
	Release(deckID string)
}

type Deck struct {
	ID        string `json:"deck_id"`
	Remaining int    `json:"remaining"`
}

type Draw struct {
	Cards     []common.Card `json:"cards"`
	Remaining int           `json:"remaining"`
}
