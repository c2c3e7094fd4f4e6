package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"card-casino-go/internal/game"
	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/models"
	"card-casino-go/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Snapshot is the last committed state of a session. Readers only ever see snapshots, so a
// provider call in progress is invisible until it completes.
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Game      string    `json:"game"`
	Phase     string    `json:"phase"`
	Chips     int       `json:"chips"`
	Busy      bool      `json:"busy"`
	Error     string    `json:"error,omitempty"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	State     any       `json:"state"`
}

// Session owns one engine. Mutations are single-flight: a second mutation while one is running
// fails with models.ErrOperationInFlight instead of queueing.
type Session struct {
	ID        string
	Game      string
	CreatedAt time.Time

	guard       sync.Mutex
	engine      game.Game
	log         logrus.FieldLogger
	publish     func(Snapshot)
	dealerDelay time.Duration
	sleep       func(time.Duration)

	mu       sync.RWMutex
	snap     Snapshot
	lastSeen time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Do runs fn against the engine under the session guard and commits a new snapshot. Blackjack
// rounds that reach the dealer's turn are played out before the guard is released; with a
// pacing delay the dealer plays on a background goroutine that keeps holding the guard.
func (s *Session) Do(ctx context.Context, op string, fn func(context.Context, game.Game) error) (Snapshot, error) {
	if !s.guard.TryLock() {
		return s.Snapshot(), models.ErrOperationInFlight
	}
	release := true
	defer func() {
		if release {
			s.guard.Unlock()
		}
	}()
	s.touch()
	// A provider call that was sent is applied even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if err := s.run(ctx, op, fn); err != nil {
		return s.commit(err, false), err
	}

	bj, ok := s.engine.(*blackjack.Engine)
	if !ok || bj.State().Phase() != blackjack.PhaseDealerTurn {
		return s.commit(nil, false), nil
	}
	if s.dealerDelay <= 0 {
		err := s.run(ctx, "dealer", func(ctx context.Context, _ game.Game) error { return bj.PlayDealer(ctx) })
		return s.commit(err, false), err
	}
	release = false
	snap := s.commit(nil, true)
	go s.paceDealer(ctx, bj)
	return snap, nil
}

// Apply is Do for operations that need a concrete engine type.
func Apply[E game.Game](ctx context.Context, s *Session, op string, fn func(context.Context, E) error) (Snapshot, error) {
	return s.Do(ctx, op, func(ctx context.Context, g game.Game) error {
		e, ok := g.(E)
		if !ok {
			return fmt.Errorf("%w: session plays %s", models.ErrWrongGame, g.Type())
		}
		return fn(ctx, e)
	})
}

// close releases the engine's deck once no operation holds the guard.
func (s *Session) close() {
	if s.guard.TryLock() {
		s.engine.Close()
		s.guard.Unlock()
		return
	}
	go func() {
		s.guard.Lock()
		defer s.guard.Unlock()
		s.engine.Close()
	}()
}

// paceDealer owns the guard taken by Do and releases it when the round resolves or a draw fails.
func (s *Session) paceDealer(ctx context.Context, bj *blackjack.Engine) {
	defer s.guard.Unlock()
	for {
		if bj.DealerWillDraw() {
			s.sleep(s.dealerDelay)
		}
		var done bool
		err := s.run(ctx, "dealer_step", func(ctx context.Context, _ game.Game) error {
			var err error
			done, err = bj.DealerStep(ctx)
			return err
		})
		if err != nil || done {
			s.commit(err, false)
			return
		}
		s.commit(nil, true)
	}
}

func (s *Session) run(ctx context.Context, op string, fn func(context.Context, game.Game) error) error {
	ctx, span := tracing.StartSpan(ctx, s.Game+"."+op,
		attribute.String("session.id", s.ID),
		attribute.String("game.phase", s.engine.Phase()),
	)
	err := fn(ctx, s.engine)
	tracing.EndSpan(span, err)

	log := s.log.WithFields(logrus.Fields{"op": op, "phase": s.engine.Phase(), "chips": s.engine.Chips()})
	if err != nil {
		log.WithError(err).Debug("operation rejected")
	} else {
		log.Debug("operation applied")
	}
	return err
}

// commit publishes the engine's state. Rejected operations leave the engine untouched, so
// only provider failures are worth a new version: they carry a message the player must see.
func (s *Session) commit(opErr error, busy bool) Snapshot {
	s.mu.Lock()
	if opErr != nil && !isProviderError(opErr) {
		snap := s.snap
		s.mu.Unlock()
		return snap
	}
	s.snap = Snapshot{
		SessionID: s.ID,
		Game:      s.Game,
		Phase:     s.engine.Phase(),
		Chips:     s.engine.Chips(),
		Busy:      busy,
		Version:   s.snap.Version + 1,
		UpdatedAt: time.Now().UTC(),
		State:     s.engine.View(),
	}
	if opErr != nil {
		s.snap.Error = ErrorMessage(opErr)
	}
	snap := s.snap
	s.mu.Unlock()

	if s.publish != nil {
		s.publish(snap)
	}
	return snap
}

func isProviderError(err error) bool {
	return errors.Is(err, models.ErrDrawFailed) || errors.Is(err, models.ErrDeckUnavailable)
}

var messages = []struct {
	err error
	msg string
}{
	{models.ErrDeckUnavailable, "The card service is unavailable. Retry to get a new deck."},
	{models.ErrDrawFailed, "Could not draw cards. Try again."},
	{models.ErrInvalidBet, "Enter a bet between 1 and your chip count."},
	{models.ErrOperationInFlight, "Please wait for the current action to finish."},
	{models.ErrIllegalTransition, "That action is not available right now."},
	{models.ErrInvalidSelection, "Pick a card position from 1 to 5."},
	{models.ErrInvalidDirection, "Guess higher or lower."},
	{models.ErrWrongGame, "This session is playing a different game."},
}

// ErrorMessage maps an engine error to a player-facing message without leaking internals.
func ErrorMessage(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Something went wrong."
}
