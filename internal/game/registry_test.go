package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGame struct{ stake int }

func (s *stubGame) Type() string { return "stub" }
func (s *stubGame) Open(ctx context.Context) error { return nil }
func (s *stubGame) Close() {}
func (s *stubGame) Phase() string { return "idle" }
func (s *stubGame) Chips() int { return s.stake }
func (s *stubGame) View() any { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func(o Options) Game { return &stubGame{stake: o.Stake} })

	g, ok := r.New("stub", Options{Stake: 7})
	require.True(t, ok)
	assert.Equal(t, 7, g.Chips())

	_, ok = r.New("missing", Options{})
	assert.False(t, ok)
	assert.Equal(t, []string{"stub"}, r.Types())
}

func TestEmitStampsResult(t *testing.T) {
	var got []Result
	o := Options{OnResult: func(r Result) { got = append(got, r) }}
	o.Emit(Result{Game: "stub", Bet: 1})
	require.Len(t, got, 1)
	assert.False(t, got[0].SettledAt.IsZero())

	assert.NotPanics(t, func() { Options{}.Emit(Result{}) })
}
