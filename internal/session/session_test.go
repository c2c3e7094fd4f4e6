package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"card-casino-go/internal/database"
	"card-casino-go/internal/deck"
	"card-casino-go/internal/deck/decktest"
	"card-casino-go/internal/game"
	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/game/highlow"
	"card-casino-go/internal/game/poker"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

type resultLog struct {
	mu      sync.Mutex
	results []game.Result
}

func (r *resultLog) RecordRound(ctx context.Context, sessionID string, res game.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func (r *resultLog) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

type publishLog struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (p *publishLog) Publish(sessionID string, snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *publishLog) last() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snaps[len(p.snaps)-1]
}

func newManager(p deck.Provider, delay time.Duration) (*Manager, *resultLog, *publishLog) {
	rec, pub := &resultLog{}, &publishLog{}
	m := NewManager(Config{
		Provider:    p,
		DealerDelay: delay,
		Logger:      quiet(),
		Publisher:   pub,
		Recorder:    rec,
	})
	return m, rec, pub
}

func bet(n int) func(context.Context, *blackjack.Engine) error {
	return func(ctx context.Context, e *blackjack.Engine) error { return e.PlaceBetAndDeal(ctx, n) }
}

func stand(ctx context.Context, e *blackjack.Engine) error { return e.Stand(ctx) }

func TestBlackjackRoundWithoutPacing(t *testing.T) {
	m, rec, pub := newManager(decktest.New("10H", "9C", "5S", "6D", "3C", "2H", "4D"), 0)
	ctx := context.Background()

	s, err := m.Create(ctx, game.TypeBlackjack)
	require.NoError(t, err)
	assert.Equal(t, "awaiting_bet", s.Snapshot().Phase)
	assert.Equal(t, blackjack.DefaultStake, s.Snapshot().Chips)

	_, err = Apply(ctx, s, "bet", bet(10))
	require.NoError(t, err)

	snap, err := Apply(ctx, s, "stand", stand)
	require.NoError(t, err)
	assert.Equal(t, "resolved", snap.Phase)
	assert.False(t, snap.Busy)
	assert.Equal(t, 1, rec.len())
	assert.Equal(t, snap.Version, pub.last().Version)

	view := snap.State.(blackjack.View)
	assert.Equal(t, blackjack.OutcomeDealerWins, view.Outcome)
}

func TestRejectedOperationKeepsSnapshot(t *testing.T) {
	m, _, _ := newManager(decktest.New("10H", "9C", "5S", "6D"), 0)
	ctx := context.Background()
	s, err := m.Create(ctx, game.TypeBlackjack)
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = Apply(ctx, s, "stand", stand)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	_, err = Apply(ctx, s, "bet", bet(0))
	assert.ErrorIs(t, err, models.ErrInvalidBet)
	assert.Equal(t, before, s.Snapshot())
}

type blockingProvider struct {
	*decktest.Scripted
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProvider) Draw(ctx context.Context, id string, n int) (deck.Draw, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.Scripted.Draw(ctx, id, n)
}

func TestConcurrentMutationIsRejected(t *testing.T) {
	p := &blockingProvider{
		Scripted: decktest.New("5S", "9H"),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	m, _, _ := newManager(p, 0)
	ctx := context.Background()
	s, err := m.Create(ctx, game.TypeHighLow)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := Apply(ctx, s, "bet", func(ctx context.Context, e *highlow.Engine) error {
			return e.PlaceBetAndDraw(ctx, 10)
		})
		done <- err
	}()
	<-p.entered

	_, err = Apply(ctx, s, "bet", func(ctx context.Context, e *highlow.Engine) error {
		return e.PlaceBetAndDraw(ctx, 10)
	})
	assert.ErrorIs(t, err, models.ErrOperationInFlight)
	snap := s.Snapshot()
	assert.Equal(t, "awaiting_bet", snap.Phase, "suspended call is not visible")
	assert.Equal(t, 100, snap.Chips)

	close(p.release)
	require.NoError(t, <-done)
	assert.Equal(t, "card_drawn", s.Snapshot().Phase)
	assert.Equal(t, 90, s.Snapshot().Chips)
}

func TestPacedDealerHoldsGuard(t *testing.T) {
	p := decktest.New("10H", "9C", "5S", "6D", "3C", "2H", "4D")
	m, rec, _ := newManager(p, time.Millisecond)
	wake := make(chan struct{})
	var sleeps int
	var mu sync.Mutex
	m.sleep = func(time.Duration) {
		<-wake
		mu.Lock()
		sleeps++
		mu.Unlock()
	}
	ctx := context.Background()
	s, err := m.Create(ctx, game.TypeBlackjack)
	require.NoError(t, err)

	_, err = Apply(ctx, s, "bet", bet(10))
	require.NoError(t, err)
	snap, err := Apply(ctx, s, "stand", stand)
	require.NoError(t, err)
	assert.True(t, snap.Busy)
	assert.Equal(t, "dealer_turn", snap.Phase)

	_, err = Apply(ctx, s, "hit", func(ctx context.Context, e *blackjack.Engine) error { return e.Hit(ctx) })
	assert.ErrorIs(t, err, models.ErrOperationInFlight)

	close(wake)
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Phase == "resolved" && !snap.Busy
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 3, sleeps, "one pause before each dealer draw")
	mu.Unlock()
	assert.Equal(t, 1, rec.len())

	_, err = Apply(ctx, s, "new_round", func(ctx context.Context, e *blackjack.Engine) error { return e.NewRound(ctx) })
	assert.NoError(t, err, "guard is released once the dealer finishes")
}

func TestDeckFailureOnCreateThenRetry(t *testing.T) {
	p := decktest.New("5S")
	p.FailNext(1)
	m, _, _ := newManager(p, 0)
	ctx := context.Background()

	s, err := m.Create(ctx, game.TypePoker)
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.NotEmpty(t, snap.Error)
	assert.False(t, snap.State.(poker.View).DeckReady)

	snap, err = m.RetryDeck(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Error)
	assert.True(t, snap.State.(poker.View).DeckReady)
}

// waitingProvider honours ctx like an HTTP client: a call that is in flight fails once its
// context is done, and otherwise completes when release is closed.
type waitingProvider struct {
	*decktest.Scripted
	release chan struct{}
}

func (w *waitingProvider) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.release:
		return nil
	}
}

func (w *waitingProvider) CreateDeck(ctx context.Context) (deck.Deck, error) {
	if err := w.wait(ctx); err != nil {
		return deck.Deck{}, err
	}
	return w.Scripted.CreateDeck(ctx)
}

func (w *waitingProvider) Draw(ctx context.Context, id string, n int) (deck.Draw, error) {
	if err := w.wait(ctx); err != nil {
		return deck.Draw{}, err
	}
	return w.Scripted.Draw(ctx, id, n)
}

func TestCanceledCallerStillAppliesDraw(t *testing.T) {
	p := &waitingProvider{
		Scripted: decktest.New("10H", "9C", "5S", "6D", "3C", "2H", "4D"),
		release:  make(chan struct{}),
	}
	m, _, _ := newManager(p, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.AfterFunc(20*time.Millisecond, func() { close(p.release) })

	s, err := m.Create(ctx, game.TypeBlackjack)
	require.NoError(t, err)
	require.True(t, s.Snapshot().State.(blackjack.View).DeckReady)

	snap, err := Apply(ctx, s, "bet", bet(5))
	require.NoError(t, err)
	v := snap.State.(blackjack.View)
	assert.Equal(t, blackjack.PhasePlayerTurn, v.Phase)
	assert.Equal(t, blackjack.DefaultStake-5, snap.Chips)
	assert.Equal(t, 3, p.Remaining(), "four dealt cards are kept")
}

func TestEndAndSweepReleaseLocalDecks(t *testing.T) {
	l, err := deck.NewLocal(7)
	require.NoError(t, err)
	m, _, _ := newManager(l, 0)
	ctx := context.Background()

	a, err := m.Create(ctx, game.TypeHighLow)
	require.NoError(t, err)
	_, err = Apply(ctx, a, "restart", func(ctx context.Context, e *highlow.Engine) error { return e.Restart(ctx) })
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len(), "restart replaces the deck")

	_, err = m.RetryDeck(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())

	_, err = m.Create(ctx, game.TypePoker)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	require.NoError(t, m.End(a.ID))
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 1, m.Sweep(time.Now().Add(time.Hour)))
	assert.Zero(t, l.Len())
}

func TestWrongAndUnknownGame(t *testing.T) {
	m, _, _ := newManager(decktest.New(), 0)
	ctx := context.Background()

	_, err := m.Create(ctx, "baccarat")
	assert.ErrorIs(t, err, models.ErrUnknownGame)

	s, err := m.Create(ctx, game.TypeBlackjack)
	require.NoError(t, err)
	_, err = Apply(ctx, s, "finalize", func(ctx context.Context, e *poker.Engine) error { return e.Finalize(ctx) })
	assert.ErrorIs(t, err, models.ErrWrongGame)
}

func TestGetEndSweep(t *testing.T) {
	m, _, _ := newManager(decktest.New(), 0)
	ctx := context.Background()

	a, err := m.Create(ctx, game.TypeHighLow)
	require.NoError(t, err)
	_, err = m.Create(ctx, game.TypePoker)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.End(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.ErrorIs(t, m.End(a.ID), models.ErrSessionNotFound)

	assert.Zero(t, m.Sweep(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, m.Sweep(time.Now().Add(time.Hour)))
	assert.Zero(t, m.Len())
}

func TestSQLRecorder(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(ctx, database.MemoryPath, quiet())
	require.NoError(t, err)
	defer db.Close()

	m := NewManager(Config{Provider: decktest.New("5S", "3H"), Logger: quiet(), Recorder: SQLRecorder{DB: db}})
	s, err := m.Create(ctx, game.TypeHighLow)
	require.NoError(t, err)

	play := func(ctx context.Context, e *highlow.Engine) error {
		if err := e.PlaceBetAndDraw(ctx, 20); err != nil {
			return err
		}
		return e.Guess(ctx, highlow.Higher)
	}
	_, err = Apply(ctx, s, "play", play)
	require.NoError(t, err)

	rounds, err := models.ListRoundsBySession(ctx, db, s.ID, 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, "lose", rounds[0].Outcome)
	assert.Equal(t, 80, rounds[0].ChipsAfter)
}

func TestErrorMessage(t *testing.T) {
	assert.Contains(t, ErrorMessage(models.ErrBetOutOfPhase), "bet")
	assert.Equal(t, "Something went wrong.", ErrorMessage(assert.AnError))
}
