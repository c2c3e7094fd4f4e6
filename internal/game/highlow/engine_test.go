package highlow

import (
	"context"
	"testing"

	"card-casino-go/internal/deck/decktest"
	"card-casino-go/internal/game"
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine  *Engine
	deck    *decktest.Scripted
	results []game.Result
}

func newFixture(t *testing.T, stake int, codes ...string) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	f := &fixture{deck: decktest.New(codes...)}
	f.engine = New(game.Options{
		Provider: f.deck,
		Stake:    stake,
		Logger:   log,
		OnResult: func(r game.Result) { f.results = append(f.results, r) },
	})
	require.NoError(t, f.engine.Open(context.Background()))
	return f
}

func card(code string) common.Card { return common.MustParseCards(code)[0] }

func TestJudge(t *testing.T) {
	tests := []struct {
		guess   Direction
		current string
		next    string
		want    Outcome
	}{
		{Higher, "5S", "9H", OutcomeWin},
		{Higher, "5S", "3H", OutcomeLose},
		{Lower, "5S", "3H", OutcomeWin},
		{Lower, "5S", "9H", OutcomeLose},
		{Higher, "7S", "7H", OutcomeDraw},
		{Lower, "7S", "7H", OutcomeDraw},
		{Higher, "KS", "AH", OutcomeWin},
		{Lower, "2S", "AH", OutcomeLose},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Judge(tt.guess, card(tt.current), card(tt.next)), "%s %s->%s", tt.guess, tt.current, tt.next)
	}
}

func TestLosingGuessReturnsToBetting(t *testing.T) {
	f := newFixture(t, 100, "5S", "3H")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 20))
	assert.Equal(t, 80, f.engine.Chips())
	require.NoError(t, f.engine.Guess(ctx, Higher))

	st, ok := f.engine.State().(AwaitingBet)
	require.True(t, ok, "got %T", f.engine.State())
	assert.Equal(t, 80, f.engine.Chips())
	require.NotNil(t, st.Last)
	assert.Equal(t, OutcomeLose, st.Last.Outcome)
	assert.Equal(t, "3H", st.Last.Drawn.String())

	require.Len(t, f.results, 1)
	assert.Zero(t, f.results[0].Payout)
}

func TestEqualValuesDraw(t *testing.T) {
	f := newFixture(t, 100, "7S", "7H")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 20))
	require.NoError(t, f.engine.Guess(ctx, Higher))

	st, ok := f.engine.State().(Draw)
	require.True(t, ok, "got %T", f.engine.State())
	assert.Equal(t, 20, st.Payout)
	assert.Equal(t, 80, f.engine.Chips(), "payout waits for a choice")

	require.NoError(t, f.engine.CashOut(ctx))
	assert.Equal(t, 100, f.engine.Chips())
	assert.Equal(t, AwaitingBet{}, f.engine.State())
}

func TestWinThenCashOut(t *testing.T) {
	f := newFixture(t, 100, "5S", "9H")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 20))
	require.NoError(t, f.engine.Guess(ctx, Higher))
	st := f.engine.State().(WinChoice)
	assert.Equal(t, 40, st.Payout)
	assert.Equal(t, 80, f.engine.Chips())

	require.NoError(t, f.engine.CashOut(ctx))
	assert.Equal(t, 120, f.engine.Chips())
	require.Len(t, f.results, 1)
	assert.Equal(t, "win", f.results[0].Outcome)
	assert.Equal(t, 40, f.results[0].Payout)
}

func TestDoubleUpChainsWinnings(t *testing.T) {
	f := newFixture(t, 100, "5S", "9H", "QD", "2C")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 20))
	require.NoError(t, f.engine.Guess(ctx, Higher))
	require.NoError(t, f.engine.ContinueDoubleUp(ctx))

	st, ok := f.engine.State().(CardDrawn)
	require.True(t, ok)
	assert.Equal(t, 40, st.Bet)
	assert.Equal(t, "QD", st.Current.String())
	assert.Equal(t, 80, f.engine.Chips(), "payout credited and re-bet")

	require.NoError(t, f.engine.Guess(ctx, Lower))
	require.NoError(t, f.engine.CashOut(ctx))
	assert.Equal(t, 160, f.engine.Chips())
}

func TestLosingLastChipsIsGameOver(t *testing.T) {
	f := newFixture(t, 100, "5S", "3H", "8C")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 100))
	require.NoError(t, f.engine.Guess(ctx, Higher))

	assert.Equal(t, PhaseGameOver, f.engine.State().Phase())
	assert.Zero(t, f.engine.Chips())
	assert.ErrorIs(t, f.engine.PlaceBetAndDraw(ctx, 1), models.ErrInvalidBet)
	assert.ErrorIs(t, f.engine.CashOut(ctx), models.ErrIllegalTransition)
	assert.Equal(t, OutcomeGameOver, f.engine.Snapshot().Outcome)

	require.NoError(t, f.engine.Restart(ctx))
	assert.Equal(t, 100, f.engine.Chips())
	assert.Equal(t, AwaitingBet{}, f.engine.State())
	created, _, _ := f.deck.Calls()
	assert.Equal(t, 2, created)
}

func TestRestartDeckFailure(t *testing.T) {
	f := newFixture(t, 100, "5S", "3H")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 100))
	require.NoError(t, f.engine.Guess(ctx, Higher))

	f.deck.FailNext(1)
	assert.ErrorIs(t, f.engine.Restart(ctx), models.ErrDeckUnavailable)
	assert.Equal(t, PhaseGameOver, f.engine.State().Phase())
	assert.False(t, f.engine.Snapshot().DeckReady)
}

func TestIllegalTransitions(t *testing.T) {
	f := newFixture(t, 100, "5S", "3H")
	ctx := context.Background()

	assert.ErrorIs(t, f.engine.Guess(ctx, Higher), models.ErrIllegalTransition)
	assert.ErrorIs(t, f.engine.ContinueDoubleUp(ctx), models.ErrIllegalTransition)
	assert.ErrorIs(t, f.engine.CashOut(ctx), models.ErrIllegalTransition)

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 10))
	assert.ErrorIs(t, f.engine.PlaceBetAndDraw(ctx, 10), models.ErrInvalidBet)
	assert.ErrorIs(t, f.engine.Guess(ctx, Direction("sideways")), models.ErrInvalidDirection)
	assert.Equal(t, PhaseCardDrawn, f.engine.State().Phase())
}

func TestGuessDrawFailureKeepsCard(t *testing.T) {
	f := newFixture(t, 100, "5S")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 10))
	before := f.engine.State()
	assert.ErrorIs(t, f.engine.Guess(ctx, Higher), models.ErrDrawFailed)
	assert.Equal(t, before, f.engine.State())
	assert.Equal(t, 90, f.engine.Chips())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" HIGHER ")
	require.NoError(t, err)
	assert.Equal(t, Higher, d)
	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, models.ErrInvalidDirection)
}

func TestSnapshotCardSlots(t *testing.T) {
	f := newFixture(t, 100, "5S", "9H")
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceBetAndDraw(ctx, 10))
	v := f.engine.Snapshot()
	require.NotNil(t, v.Current)
	assert.Nil(t, v.Previous)

	require.NoError(t, f.engine.Guess(ctx, Higher))
	v = f.engine.Snapshot()
	assert.Equal(t, "9H", v.Current.String())
	assert.Equal(t, "5S", v.Previous.String())
	assert.Equal(t, OutcomeWin, v.Outcome)
	assert.Equal(t, 20, v.Payout)
}
