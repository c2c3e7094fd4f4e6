package deck

import (
	"context"
	"testing"

	"card-casino-go/internal/game/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawAll(t *testing.T, p Provider, id string) []common.Card {
	t.Helper()
	d, err := p.Draw(context.Background(), id, 52)
	require.NoError(t, err)
	return d.Cards
}

func TestLocalDealsFullDeck(t *testing.T) {
	l, err := NewLocal(0)
	require.NoError(t, err)
	ctx := context.Background()

	d, err := l.CreateDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 52, d.Remaining)

	cards := drawAll(t, l, d.ID)
	seen := map[string]bool{}
	for _, c := range cards {
		seen[c.String()] = true
		assert.NotEmpty(t, c.Image)
	}
	assert.Len(t, seen, 52)

	_, err = l.Draw(ctx, d.ID, 1)
	assert.Error(t, err, "empty deck must refuse to draw")

	n, err := l.Reshuffle(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 52, n)
}

func TestLocalSeedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewLocal(42)
	require.NoError(t, err)
	b, err := NewLocal(42)
	require.NoError(t, err)

	da, err := a.CreateDeck(ctx)
	require.NoError(t, err)
	db, err := b.CreateDeck(ctx)
	require.NoError(t, err)

	assert.Equal(t, drawAll(t, a, da.ID), drawAll(t, b, db.ID))
}

func TestLocalUnknownDeck(t *testing.T) {
	l, err := NewLocal(7)
	require.NoError(t, err)
	_, err = l.Draw(context.Background(), "nope", 1)
	assert.Error(t, err)
	_, err = l.Reshuffle(context.Background(), "nope")
	assert.Error(t, err)
}

func TestLocalRelease(t *testing.T) {
	l, err := NewLocal(7)
	require.NoError(t, err)
	ctx := context.Background()
	a, err := l.CreateDeck(ctx)
	require.NoError(t, err)
	_, err = l.CreateDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	l.Release(a.ID)
	l.Release("nope")
	assert.Equal(t, 1, l.Len())
	_, err = l.Draw(ctx, a.ID, 1)
	assert.Error(t, err)
}

func TestImageCodeSpellsTenAsZero(t *testing.T) {
	assert.Equal(t, "0H", imageCode(common.Card{Rank: common.Ten, Suit: common.Hearts}))
	assert.Equal(t, "KS", imageCode(common.Card{Rank: common.King, Suit: common.Spades}))
}
