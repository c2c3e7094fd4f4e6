// Package session hosts one engine per player session and serializes access to it.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"card-casino-go/internal/deck"
	"card-casino-go/internal/game"
	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/game/highlow"
	"card-casino-go/internal/game/poker"
	"card-casino-go/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher receives every committed snapshot.
type Publisher interface {
	Publish(sessionID string, snap Snapshot)
}

type PublisherFunc func(sessionID string, snap Snapshot)

func (f PublisherFunc) Publish(sessionID string, snap Snapshot) { f(sessionID, snap) }

// Recorder stores settled rounds.
type Recorder interface {
	RecordRound(ctx context.Context, sessionID string, r game.Result) error
}

type Config struct {
	Registry    *game.Registry
	Provider    deck.Provider
	Stakes      map[string]int
	DealerDelay time.Duration
	Logger      logrus.FieldLogger
	Publisher   Publisher
	Recorder    Recorder
}

// DefaultRegistry registers the three engines.
func DefaultRegistry() *game.Registry {
	r := game.NewRegistry()
	r.Register(game.TypeBlackjack, func(o game.Options) game.Game { return blackjack.New(o) })
	r.Register(game.TypePoker, func(o game.Options) game.Game { return poker.New(o) })
	r.Register(game.TypeHighLow, func(o game.Options) game.Game { return highlow.New(o) })
	return r
}

type Manager struct {
	cfg   Config
	log   logrus.FieldLogger
	sleep func(time.Duration)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		cfg:      cfg,
		log:      log.WithField("component", "sessions"),
		sleep:    time.Sleep,
		sessions: map[string]*Session{},
	}
}

// Create starts a session and asks for its first deck. A deck failure does not fail creation:
// the session's snapshot carries the error and betting stays blocked until RetryDeck succeeds.
func (m *Manager) Create(ctx context.Context, gameType string) (*Session, error) {
	id := uuid.NewString()
	log := m.log.WithFields(logrus.Fields{"session_id": id, "game": gameType})
	g, ok := m.cfg.Registry.New(gameType, game.Options{
		Provider: m.cfg.Provider,
		Stake:    m.cfg.Stakes[gameType],
		Logger:   log,
		OnResult: func(r game.Result) { m.record(id, r) },
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownGame, gameType)
	}

	now := time.Now()
	s := &Session{
		ID:          id,
		Game:        gameType,
		CreatedAt:   now,
		engine:      g,
		log:         log,
		dealerDelay: m.cfg.DealerDelay,
		sleep:       m.sleep,
		lastSeen:    now,
	}
	if m.cfg.Publisher != nil {
		s.publish = func(snap Snapshot) { m.cfg.Publisher.Publish(id, snap) }
	}

	if _, err := s.Do(ctx, "open", func(ctx context.Context, g game.Game) error { return g.Open(ctx) }); err != nil {
		log.WithError(err).Warn("session created without a deck")
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	log.Info("session created")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	delete(m.sessions, id)
	s.close()
	m.log.WithField("session_id", id).Info("session ended")
	return nil
}

// Types lists the game types sessions can be created for.
func (m *Manager) Types() []string { return m.cfg.Registry.Types() }

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RetryDeck asks the provider for a new deck after a failed creation.
func (m *Manager) RetryDeck(ctx context.Context, id string) (Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Do(ctx, "open", func(ctx context.Context, g game.Game) error { return g.Open(ctx) })
}

// Sweep ends sessions idle since before cutoff. Sessions with an operation in flight are kept.
func (m *Manager) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if !s.LastSeen().Before(cutoff) {
			continue
		}
		if !s.guard.TryLock() {
			continue
		}
		delete(m.sessions, id)
		s.engine.Close()
		s.guard.Unlock()
		n++
	}
	if n > 0 {
		m.log.WithField("count", n).Info("idle sessions swept")
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now.Add(-idle))
		}
	}
}

func (m *Manager) record(sessionID string, r game.Result) {
	if m.cfg.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.cfg.Recorder.RecordRound(ctx, sessionID, r); err != nil {
		m.log.WithError(err).WithField("session_id", sessionID).Warn("record round")
	}
}
