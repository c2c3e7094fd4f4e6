package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil, false
	}
}

func TestHubBroadcastsToSessionRoom(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := NewClient(nil, h, "a")
	b := NewClient(nil, h, "b")
	h.Register(a)
	h.Register(b)

	h.Broadcast(SessionRoom("a"), "state", map[string]int{"chips": 90})

	msg, ok := recv(t, a)
	require.True(t, ok)
	var env struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, "state", env.Type)
	assert.Equal(t, 90, env.Payload["chips"])

	select {
	case <-b.Send:
		t.Fatal("other session received a broadcast")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubUnregisterAndStop(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := NewClient(nil, h, "a")
	b := NewClient(nil, h, "b")
	h.Register(a)
	h.Register(b)

	h.Unregister(a)
	_, ok := recv(t, a)
	assert.False(t, ok, "send channel closed on unregister")

	h.Stop()
	_, ok = recv(t, b)
	assert.False(t, ok, "send channel closed on stop")

	late := NewClient(nil, h, "c")
	h.Register(late)
	_, ok = recv(t, late)
	assert.False(t, ok, "register after stop closes the client")
	h.Broadcast(SessionRoom("c"), "state", nil)
	h.Stop()
}

func TestHubRef(t *testing.T) {
	r := NewHubRef(nil)
	_, ok := r.Get()
	assert.False(t, ok)

	h := NewHub()
	r.Set(h)
	got, ok := r.Get()
	assert.True(t, ok)
	assert.Same(t, h, got)
}
